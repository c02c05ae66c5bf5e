package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/models"
)

// RequireRole gates a route to the given roles. A super admin passes
// every gate.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetUserIDFromContext(ctx); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			role, ok := common.GetRoleFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			if role == models.RoleSuperAdmin || allowed[role] {
				return next(c)
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// RequireCompanyMatch stops a company admin from touching another
// company's resources. Super admins may act on any company.
func RequireCompanyMatch() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			role, _ := common.GetRoleFromContext(ctx)
			if role == models.RoleSuperAdmin {
				return next(c)
			}

			resolved, ok := common.GetCompanyIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "No company bound to this session")
			}

			tenant, ok := TenantFromContext(c)
			if ok && tenant.ID != resolved {
				return echo.NewHTTPError(http.StatusForbidden, "You do not manage this store")
			}
			return next(c)
		}
	}
}
