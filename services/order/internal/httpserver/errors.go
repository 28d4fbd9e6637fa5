package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_orders/services/order/internal/service"
)

// fail logs err under op and converts it to the HTTP error the client sees.
func fail(l *slog.Logger, op string, err error) error {
	code, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, service.ErrValidation):
		code, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, service.ErrEmptyCart):
		code, msg = http.StatusBadRequest, "cart is empty"
	case errors.Is(err, service.ErrNotFound):
		code, msg = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrAlreadyPaid):
		code, msg = http.StatusConflict, "order already paid"
	case errors.Is(err, service.ErrPaymentDeclined):
		code, msg = http.StatusPaymentRequired, "payment declined"
	}

	if code >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", code, "error", err)
	} else {
		l.Warn(op+"_error", "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func forbidden(l *slog.Logger, op string) error {
	l.Warn(op+"_error", "status", http.StatusForbidden, "reason", "forbidden")
	return echo.NewHTTPError(http.StatusForbidden, "forbidden")
}

func unauthorized(l *slog.Logger, op string, err error) error {
	l.Warn(op+"_error", "status", http.StatusUnauthorized, "error", err)
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}
