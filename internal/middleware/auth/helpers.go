package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/service"
)

const identityKey = "identity"

func bearerToken(c echo.Context) (string, bool) {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}

func setUserContext(c echo.Context, id *service.Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.UserID)
	c.Set("role", id.Role)

	ctx := c.Request().Context()
	l := logging.FromContext(ctx).WithField("user_id", id.UserID)
	c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
}

// IdentityFrom returns the caller resolved by RequireAuth or OptionalAuth, or nil.
func IdentityFrom(c echo.Context) *service.Identity {
	if id, ok := c.Get(identityKey).(*service.Identity); ok {
		return id
	}
	return nil
}
