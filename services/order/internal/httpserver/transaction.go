package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_orders/pkg/logging"
	middleware "github.com/Skotchmaster/shop_orders/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_orders/services/order/internal/service"
	"github.com/Skotchmaster/shop_orders/services/order/internal/transport"
)

const maxReasonLen = 1000

type TransactionHTTP struct {
	Svc *service.OrderService
}

func (h *TransactionHTTP) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.list")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "list_transactions", err)
	}

	page, size, offset := pageParams(c)
	trxs, total, err := h.Svc.ListUserTransactions(ctx, userID, size, offset)
	if err != nil {
		return fail(l, "list_transactions", err)
	}
	return c.JSON(http.StatusOK, transport.TransactionList{Transactions: trxs, Total: total, Page: page, Size: size})
}

func (h *TransactionHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.get")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "get_transaction", err)
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	trx, err := h.Svc.GetTransactionWithDetails(ctx, id)
	if err != nil {
		return fail(l, "get_transaction", err)
	}
	if !canSee(c, userID, trx.UserID, middleware.RoleAdmin) {
		return forbidden(l, "get_transaction")
	}
	return c.JSON(http.StatusOK, trx)
}

// Refund lets the order owner or an admin refund a paid order.
func (h *TransactionHTTP) Refund(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.refund")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "refund", err)
	}

	var req transport.RefundRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "refund", "invalid body", err)
	}
	req.Reason = strings.TrimSpace(req.Reason)
	switch {
	case req.OrderID == 0:
		return badRequest(l, "refund", "order_id is required", nil)
	case req.Amount.IsNegative():
		return badRequest(l, "refund", "amount must be at least 0", nil)
	case req.Reason == "":
		return badRequest(l, "refund", "reason is required", nil)
	case len(req.Reason) > maxReasonLen:
		return badRequest(l, "refund", "reason must not exceed 1000 characters", nil)
	}

	order, err := h.Svc.GetOrderWithItems(ctx, req.OrderID)
	if err != nil {
		return fail(l, "refund", err)
	}
	if !canSee(c, userID, order.UserID, middleware.RoleAdmin) {
		return forbidden(l, "refund")
	}
	if !order.IsPaid {
		return badRequest(l, "refund", "order is not paid", nil)
	}

	refund, err := h.Svc.ProcessRefund(ctx, req.OrderID, req.Amount, req.Reason)
	if err != nil {
		return fail(l, "refund", err)
	}

	l.Info("refund_success", "order_id", req.OrderID, "transaction_number", refund.TransactionNumber)
	return c.JSON(http.StatusCreated, refund)
}

func (h *TransactionHTTP) Points(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.points")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "points", err)
	}

	points, err := h.Svc.GetUserPointsEarned(ctx, userID)
	if err != nil {
		return fail(l, "points", err)
	}
	balance, err := h.Svc.GetUserPointsBalance(ctx, userID)
	if err != nil {
		return fail(l, "points", err)
	}
	return c.JSON(http.StatusOK, transport.PointsResponse{UserID: userID, PointsEarned: points, Balance: balance})
}

func parseDate(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func (h *TransactionHTTP) Report(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "transaction.report")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "report", err)
	}

	start, err := parseDate(c.QueryParam("start_date"), false)
	if err != nil {
		return badRequest(l, "report", "start_date must be YYYY-MM-DD", err)
	}
	end, err := parseDate(c.QueryParam("end_date"), true)
	if err != nil {
		return badRequest(l, "report", "end_date must be YYYY-MM-DD", err)
	}

	report, err := h.Svc.GenerateReport(ctx, userID, service.ReportFilter{
		Start:  start,
		End:    end,
		Status: c.QueryParam("status"),
		Type:   c.QueryParam("type"),
	})
	if err != nil {
		return fail(l, "report", err)
	}
	return c.JSON(http.StatusOK, report)
}
