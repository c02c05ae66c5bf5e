package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/services"
)

// Maintenance short-circuits storefront traffic with 503 while the
// global maintenance flag is set. Health probes, payment webhooks,
// sign-in and the platform routes stay reachable so the operator can
// turn the flag back off. When the settings read fails the request is
// allowed through.
func Maintenance(platform services.PlatformService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/health") ||
				strings.HasPrefix(path, "/webhooks") ||
				strings.HasPrefix(path, "/v1/auth") ||
				strings.HasPrefix(path, "/v1/platform") {
				return next(c)
			}

			settings, err := platform.Settings(c.Request().Context())
			if err != nil {
				log.Printf("WARN: maintenance check failed: %v", err)
				return next(c)
			}
			if settings.GlobalMaintenanceMode {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "The platform is down for maintenance")
			}
			return next(c)
		}
	}
}
