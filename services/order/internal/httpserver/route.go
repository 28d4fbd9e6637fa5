package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/shop_orders/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler       *OrderHTTP
	TransactionHandler *TransactionHTTP
	JWTSecret          []byte
	AuthClient         middleware.Refresher
	// Ready reports whether dependencies answer; nil means always ready.
	Ready func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/my", d.OrderHandler.MyOrders)
	orders.GET("/search", d.OrderHandler.SearchOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PATCH("/:id/status", d.OrderHandler.UpdateStatus)
	orders.POST("/:id/pay", d.OrderHandler.PayOrder)

	e.GET("/orders", d.OrderHandler.ListOrders, authMW.RequireAdmin)

	trx := e.Group("/transactions", authMW.RequireAuth)
	trx.GET("", d.TransactionHandler.ListMine)
	trx.GET("/report", d.TransactionHandler.Report)
	trx.POST("/refund", d.TransactionHandler.Refund)
	trx.GET("/:id", d.TransactionHandler.Get)

	e.GET("/points", d.TransactionHandler.Points, authMW.RequireAuth)
}
