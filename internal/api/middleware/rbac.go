package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workhub/collab-api/internal/core/domain"
)

// RequireRole gates a route on the resolved role. Anonymous callers get
// 401 (they never authenticated); authenticated callers outside the
// allowed set get 403.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[identity.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// RequireAuth admits any authenticated identity regardless of role.
func RequireAuth() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleSales)
}
