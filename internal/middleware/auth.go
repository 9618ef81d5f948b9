package middleware

import (
	"net/http"
	"strings"

	"eshop-assistant/internal/service"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Auth resolves a Bearer token into an Identity and stores it on the echo
// context. An absent or invalid token leaves the caller anonymous; handlers
// decide what anonymity means for them. Chat relies on this: anonymous users
// still get replies, just with login prompts for gated operations.
func Auth(auth service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if ok && token != "" {
				if ident, err := auth.ParseToken(token); err == nil {
					c.Set(identityKey, ident)
				}
			}
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IdentityFrom(c).Authenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects callers without the Admin role with 403.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident := IdentityFrom(c)
			if !ident.Authenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			if !ident.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the resolved Identity, anonymous when none was set.
func IdentityFrom(c echo.Context) service.Identity {
	if ident, ok := c.Get(identityKey).(service.Identity); ok {
		return ident
	}
	return service.Identity{}
}
