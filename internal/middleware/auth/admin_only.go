package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/service"
)

// RequireAdmin must run after RequireAuth. Non-admins are rejected before
// the handler runs.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := IdentityFrom(c)
		if id == nil {
			return service.NewAuthenticationError("")
		}
		if !id.IsAdmin() {
			logging.FromContext(c.Request().Context()).
				WithField("path", c.Path()).
				Warn("admin_access_denied")
			return service.NewAuthorizationError("")
		}
		return next(c)
	}
}
