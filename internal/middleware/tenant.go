package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

const tenantContextKey = "tenant"

// TenantResolver resolves the request hostname to a company and stashes
// it on the echo context. Requests to a suspended store are redirected
// to the suspension page regardless of path, so admin and API routes go
// dark along with the storefront.
func TenantResolver(companies services.CompanyService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			host := c.Request().Host

			company, err := companies.ResolveHost(c.Request().Context(), host)
			if err != nil {
				if err == services.ErrCompanyNotFound {
					// Platform root or an unknown host. Routes that need
					// a tenant reject the request themselves.
					return next(c)
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve store")
			}

			if company.Suspended() && !strings.HasPrefix(c.Request().URL.Path, "/suspended") {
				return c.Redirect(http.StatusFound, "/suspended")
			}

			c.Set(tenantContextKey, company)
			c.SetRequest(c.Request().WithContext(common.WithCompanyID(c.Request().Context(), company.ID)))
			return next(c)
		}
	}
}

// RequireTenant rejects requests whose hostname did not resolve to a
// store.
func RequireTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := TenantFromContext(c); !ok {
				return echo.NewHTTPError(http.StatusNotFound, "Store not found")
			}
			return next(c)
		}
	}
}

// AdminTenant binds the admin's own company when the hostname did not
// resolve one, so the admin API works from the platform dashboard as
// well as from store domains.
func AdminTenant(companies services.CompanyService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := TenantFromContext(c); ok {
				return next(c)
			}

			companyID, ok := common.GetCompanyIDFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "No company bound to this session")
			}

			company, err := companies.GetByID(c.Request().Context(), companyID)
			if err != nil {
				return echo.NewHTTPError(http.StatusNotFound, "Store not found")
			}
			if company.Suspended() {
				return c.Redirect(http.StatusFound, "/suspended")
			}

			c.Set(tenantContextKey, company)
			return next(c)
		}
	}
}

// TenantFromContext returns the company resolved for this request.
func TenantFromContext(c echo.Context) (*models.Company, bool) {
	company, ok := c.Get(tenantContextKey).(*models.Company)
	return company, ok
}

// TenantFromParam resolves the tenant from a path parameter holding a
// slug or company ID. Used on routes addressed as /store/:company/...
// where no custom domain is in play. A tenant already resolved from the
// hostname wins.
func TenantFromParam(companies services.CompanyService, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := TenantFromContext(c); ok {
				return next(c)
			}

			identifier := c.Param(param)
			company, err := companies.ResolveIdentifier(c.Request().Context(), identifier)
			if err != nil {
				if err == services.ErrCompanyNotFound {
					return echo.NewHTTPError(http.StatusNotFound, "Store not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve store")
			}

			if company.Suspended() {
				return c.Redirect(http.StatusFound, "/suspended")
			}

			c.Set(tenantContextKey, company)
			c.SetRequest(c.Request().WithContext(common.WithCompanyID(c.Request().Context(), company.ID)))
			return next(c)
		}
	}
}
