// internal/api/auth.go
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware guards the API with a static bearer token. The health
// endpoint stays public so probes work unauthenticated. When no token is
// configured every request passes, which keeps single-operator deployments
// behind a VPN workable.
func (c *Controller) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := c.Settings.WebServer.AuthToken
			if token == "" || ctx.Path() == "/api/v1/health" {
				return next(ctx)
			}

			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			presented, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				if c.metrics != nil {
					c.metrics.HTTP.RecordAuthFailure(ctx.Path())
				}
				return c.HandleError(ctx, nil, "Unauthorized", http.StatusUnauthorized)
			}

			return next(ctx)
		}
	}
}
