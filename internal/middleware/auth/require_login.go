package auth

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/service"
)

type Authenticator interface {
	Authenticate(ctx context.Context, secret string) (*service.Identity, error)
}

type TokenAuth struct {
	Auth Authenticator
}

func NewTokenAuth(a Authenticator) *TokenAuth {
	return &TokenAuth{Auth: a}
}

func (m *TokenAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, ok := bearerToken(c)
		if !ok {
			return service.NewAuthenticationError("")
		}

		id, err := m.Auth.Authenticate(c.Request().Context(), secret)
		if err != nil {
			return err
		}

		setUserContext(c, id)
		return next(c)
	}
}

// OptionalAuth attaches the caller when a valid bearer token is present and
// otherwise lets the request through anonymously.
func (m *TokenAuth) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, ok := bearerToken(c)
		if !ok {
			return next(c)
		}

		ctx := c.Request().Context()
		id, err := m.Auth.Authenticate(ctx, secret)
		switch {
		case err == nil:
			setUserContext(c, id)
		case errors.Is(err, service.ErrUnauthenticated):
			logging.FromContext(ctx).Debug("optional_auth_ignored_token")
		default:
			return err
		}
		return next(c)
	}
}
