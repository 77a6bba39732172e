package main

import (
	"fmt"
	"os"

	"github.com/senthilk/partybase/cmd"
	"github.com/senthilk/partybase/internal/conf"
	"github.com/senthilk/partybase/internal/logging"
)

// version and buildDate are set by the linker at build time
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
	settings.Version = version
	settings.BuildDate = buildDate

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "command error: %v\n", err)
		os.Exit(1)
	}
}
