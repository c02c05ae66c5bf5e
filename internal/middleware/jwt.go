package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Stepheeeen/flairecosystem/internal/common"
)

// JWTMiddleware validates the session token from the Authorization
// header or the session cookie and stashes the caller's identity on the
// request context.
func JWTMiddleware(jwtSecret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(jwtSecret),
		TokenLookup: "header:Authorization:Bearer ,cookie:session_token",
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return
			}

			ctx := c.Request().Context()

			if sub, ok := claims["sub"].(string); ok {
				if userID, err := uuid.Parse(sub); err == nil {
					ctx = context.WithValue(ctx, common.UserIDKey, userID)
				}
			}
			if role, ok := claims["role"].(string); ok {
				ctx = context.WithValue(ctx, common.RoleKey, role)
			}
			// Admin tokens carry their company binding; customer tokens
			// may not.
			if companyStr, ok := claims["company_id"].(string); ok {
				if companyID, err := uuid.Parse(companyStr); err == nil {
					ctx = context.WithValue(ctx, common.CompanyIDKey, companyID)
				}
			}

			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return redirectOrUnauthorized(c, "Invalid or missing token")
		},
	})
}

// OptionalJWT binds user identity when a token is present but lets
// anonymous requests through. Used on guest-capable routes such as
// checkout.
func OptionalJWT(jwtSecret string) echo.MiddlewareFunc {
	strict := JWTMiddleware(jwtSecret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		strictNext := strict(next)
		return func(c echo.Context) error {
			if extractToken(c) == "" {
				return next(c)
			}
			return strictNext(c)
		}
	}
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != authHeader {
			return tokenString
		}
		return ""
	}

	cookie, err := c.Cookie("session_token")
	if err == nil {
		return cookie.Value
	}
	return ""
}

// redirectOrUnauthorized sends browsers to login with the original URL
// preserved, and returns a plain 401 for API clients.
func redirectOrUnauthorized(c echo.Context, message string) error {
	if strings.Contains(c.Request().Header.Get("Accept"), "text/html") {
		callback := url.QueryEscape(c.Request().URL.RequestURI())
		return c.Redirect(http.StatusFound, "/login?callbackUrl="+callback)
	}
	return echo.NewHTTPError(http.StatusUnauthorized, message)
}
