package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory/internal/middleware/auth"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	CategoryHandler *CategoryHTTP
	ProductHandler  *ProductHTTP
	TokenAuth       *auth.TokenAuth
	RateLimit       echo.MiddlewareFunc
	Ready           func(ctx context.Context) error
	Debug           bool
}

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorTranslator{Debug: d.Debug}.Handle

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health/ready", d.ready)

	mount(e, d)
	mount(e.Group("/api"), d)
}

// mount attaches middleware per route; echo group middleware would turn
// unknown paths into auth failures instead of 404s.
func mount(r router, d *Deps) {
	throttle := d.RateLimit
	if throttle == nil {
		throttle = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	authed := []echo.MiddlewareFunc{d.TokenAuth.RequireAuth, throttle}
	admin := []echo.MiddlewareFunc{d.TokenAuth.RequireAuth, throttle, auth.RequireAdmin}

	r.POST("/register", d.AuthHandler.Register, d.TokenAuth.OptionalAuth, throttle)
	r.POST("/login", d.AuthHandler.Login, throttle)
	r.POST("/logout", d.AuthHandler.Logout, authed...)

	r.GET("/products", d.ProductHandler.GetProducts, authed...)
	r.GET("/products/search", d.ProductHandler.SearchProducts, authed...)
	r.GET("/products/:id", d.ProductHandler.GetProduct, authed...)
	r.POST("/products", d.ProductHandler.CreateProduct, admin...)
	r.PUT("/products/:id", d.ProductHandler.PatchProduct, admin...)
	r.PATCH("/products/:id", d.ProductHandler.PatchProduct, admin...)
	r.DELETE("/products/:id", d.ProductHandler.DeleteProduct, admin...)

	r.GET("/categories", d.CategoryHandler.GetCategories, authed...)
	r.GET("/categories/:id", d.CategoryHandler.GetCategory, authed...)
	r.POST("/categories", d.CategoryHandler.CreateCategory, admin...)
	r.PUT("/categories/:id", d.CategoryHandler.PatchCategory, admin...)
	r.PATCH("/categories/:id", d.CategoryHandler.PatchCategory, admin...)
	r.DELETE("/categories/:id", d.CategoryHandler.DeleteCategory, admin...)
}

func (d *Deps) ready(c echo.Context) error {
	if d.Ready == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := d.Ready(ctx); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Service unavailable.").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
