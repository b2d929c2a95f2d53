package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/middleware/auth"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).WithField("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, &req); err != nil {
		l.WithError(err).Warn("register_bind_error")
		return err
	}

	if _, err := h.Svc.Register(ctx, req, auth.IdentityFrom(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "User created successfully."})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).WithField("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, &req); err != nil {
		l.WithError(err).Warn("login_bind_error")
		return err
	}

	token, err := h.Svc.Login(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.TokenResponse{Token: token})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	if err := h.Svc.Logout(c.Request().Context(), auth.IdentityFrom(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged out successfully."})
}
