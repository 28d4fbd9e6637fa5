package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthURL  string
	CartURL  string
	OrderURL string
}

// Register mounts the public /api/v1 surface. Token checks happen in the
// services behind it; the gateway only routes.
func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authProxy, err := newProxy(d.AuthURL, "/api/v1")
	if err != nil {
		return err
	}

	cartProxy, err := newProxy(d.CartURL, "/api/v1")
	if err != nil {
		return err
	}

	orderProxy, err := newProxy(d.OrderURL, "/api/v1")
	if err != nil {
		return err
	}

	api := e.Group("/api/v1")
	api.Any("/auth/*", authProxy)
	api.Any("/cart", cartProxy)
	api.Any("/cart/*", cartProxy)
	api.Any("/orders", orderProxy)
	api.Any("/orders/*", orderProxy)
	api.Any("/transactions", orderProxy)
	api.Any("/transactions/*", orderProxy)
	api.Any("/points", orderProxy)

	return nil
}
