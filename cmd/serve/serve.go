// Package serve implements the serve command, which runs the HTTP backend.
package serve

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/senthilk/partybase/internal/api"
	"github.com/senthilk/partybase/internal/conf"
	"github.com/senthilk/partybase/internal/datastore"
	"github.com/senthilk/partybase/internal/errors"
	"github.com/senthilk/partybase/internal/logging"
	"github.com/senthilk/partybase/internal/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command creates the serve command
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	cmd.Flags().StringVar(&settings.WebServer.Host, "host", viper.GetString("webserver.host"), "Address to bind the server to")
	cmd.Flags().StringVar(&settings.WebServer.Port, "port", viper.GetString("webserver.port"), "Port to listen on")

	return cmd
}

func runServer(settings *conf.Settings) error {
	if err := conf.ValidateSettings(settings); err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Component("serve").
			Build()
	}

	logger := logging.ForService("server")

	ds := datastore.New(settings)
	if ds == nil {
		return errors.NewStd("no database output enabled in configuration")
	}
	if err := ds.Open(); err != nil {
		return errors.New(err).
			Category(errors.CategoryDatabase).
			Component("serve").
			Build()
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Error("failed to close datastore", "error", err)
		}
	}()

	metrics, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	controller, err := api.New(e, ds, settings, log.Default(), metrics)
	if err != nil {
		return err
	}
	defer controller.Shutdown()

	addr := settings.WebServer.Host + ":" + settings.WebServer.Port

	errChan := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	logger.Info("server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return errors.New(err).Category(errors.CategoryHTTP).Component("serve").Build()
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return errors.New(err).Category(errors.CategoryHTTP).Component("serve").Build()
	}

	logger.Info("server stopped")
	return nil
}
