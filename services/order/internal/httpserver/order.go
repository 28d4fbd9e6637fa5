package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_orders/pkg/logging"
	middleware "github.com/Skotchmaster/shop_orders/pkg/middleware/auth"
	"github.com/Skotchmaster/shop_orders/pkg/util"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
	"github.com/Skotchmaster/shop_orders/services/order/internal/search"
	"github.com/Skotchmaster/shop_orders/services/order/internal/service"
	"github.com/Skotchmaster/shop_orders/services/order/internal/transport"
)

type OrderReads interface {
	GetOrderWithItems(ctx context.Context, orderID uint) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, int64, error)
	ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
}

type OrderHTTP struct {
	Svc *service.OrderService
	// Reads serves order lookups, usually through the cache. Svc is used
	// when it is nil.
	Reads OrderReads

	ES          *elasticsearch.Client
	SearchIndex string
}

func (h *OrderHTTP) reads() OrderReads {
	if h.Reads == nil {
		return h.Svc
	}
	return h.Reads
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func pageParams(c echo.Context) (page, size, offset int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	if page < 1 {
		page = 1
	}
	offset, size = util.Calculate(page, util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize))
	return page, size, offset
}

// canSee reports whether the caller owns the order or holds one of roles.
func canSee(c echo.Context, userID, ownerID uint, roles ...string) bool {
	return userID == ownerID || middleware.HasRole(c, roles...)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "create_order", err)
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order", "invalid body", err)
	}
	if reason := validateCreate(req); reason != "" {
		return badRequest(l, "create_order", reason, nil)
	}

	order, err := h.Svc.CreateFromCart(ctx, userID, service.ShippingDetails{
		Address: strings.TrimSpace(req.ShippingAddress),
		City:    strings.TrimSpace(req.ShippingCity),
		State:   strings.TrimSpace(req.ShippingState),
		Zip:     strings.TrimSpace(req.ShippingZip),
		Country: strings.TrimSpace(req.ShippingCountry),
	}, req.PaymentMethod)
	if err != nil {
		return fail(l, "create_order", err)
	}

	l.Info("create_order_success", "order_id", order.ID, "order_number", order.OrderNumber)
	return c.JSON(http.StatusCreated, order)
}

func validateCreate(req transport.CreateOrderRequest) string {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"shipping_address", req.ShippingAddress, 255},
		{"shipping_city", req.ShippingCity, 255},
		{"shipping_state", req.ShippingState, 255},
		{"shipping_zip", req.ShippingZip, 20},
		{"shipping_country", req.ShippingCountry, 255},
		{"payment_method", req.PaymentMethod, 255},
	}
	for _, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return f.name + " is required"
		}
		if len(v) > f.max {
			return f.name + " is too long"
		}
	}
	return ""
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "my_orders", err)
	}

	page, size, offset := pageParams(c)
	orders, total, err := h.reads().ListUserOrders(ctx, userID, size, offset)
	if err != nil {
		return fail(l, "my_orders", err)
	}
	return c.JSON(http.StatusOK, transport.OrderList{Orders: orders, Total: total, Page: page, Size: size})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	page, size, offset := pageParams(c)
	orders, total, err := h.reads().ListOrders(ctx, size, offset)
	if err != nil {
		return fail(l, "list_orders", err)
	}
	return c.JSON(http.StatusOK, transport.OrderList{Orders: orders, Total: total, Page: page, Size: size})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "get_order", err)
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	order, err := h.reads().GetOrderWithItems(ctx, orderID)
	if err != nil {
		return fail(l, "get_order", err)
	}
	if !canSee(c, userID, order.UserID, middleware.RoleAdmin, middleware.RoleMerchant) {
		return forbidden(l, "get_order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "update_status", err)
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_status", "invalid body", err)
	}
	if !req.Status.Valid() {
		return badRequest(l, "update_status", "status must be one of: pending, processing, shipped, delivered, cancelled", nil)
	}

	current, err := h.Svc.GetOrderWithItems(ctx, orderID)
	if err != nil {
		return fail(l, "update_status", err)
	}
	if !canSee(c, userID, current.UserID, middleware.RoleAdmin, middleware.RoleMerchant) {
		return forbidden(l, "update_status")
	}

	order, err := h.Svc.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		return fail(l, "update_status", err)
	}

	l.Info("update_status_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) PayOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.pay_order")

	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "pay_order", err)
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	var req transport.PayOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "pay_order", "invalid body", err)
	}

	current, err := h.Svc.GetOrderWithItems(ctx, orderID)
	if err != nil {
		return fail(l, "pay_order", err)
	}
	if !canSee(c, userID, current.UserID, middleware.RoleAdmin) {
		return forbidden(l, "pay_order")
	}

	order, err := h.Svc.ProcessPayment(ctx, orderID, service.PaymentDetails{
		Reference: strings.TrimSpace(req.Reference),
		Details:   req.Details,
	})
	if err != nil {
		return fail(l, "pay_order", err)
	}

	l.Info("pay_order_success", "order_id", order.ID, "order_number", order.OrderNumber)
	return c.JSON(http.StatusOK, order)
}

// SearchOrders queries the order index. Customers only see their own
// orders.
func (h *OrderHTTP) SearchOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.search")

	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search disabled")
	}
	userID, err := middleware.UserID(c)
	if err != nil {
		return unauthorized(l, "search_orders", err)
	}
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return badRequest(l, "search_orders", "query error", nil)
	}

	_, size, from := pageParams(c)
	query := search.Query{Text: q, From: from, Size: size}
	if !middleware.HasRole(c, middleware.RoleAdmin, middleware.RoleMerchant) {
		query.UserID = userID
	}

	index := h.SearchIndex
	if index == "" {
		index = search.DefaultIndex
	}
	total, docs, err := search.Search(ctx, h.ES, index, query)
	if err != nil {
		l.Error("search_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search error")
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "orders": docs})
}
