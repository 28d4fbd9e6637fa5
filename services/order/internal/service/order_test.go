package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_orders/services/order/internal/events"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
)

func TestCreateFromCart_TotalsAndClearsCart(t *testing.T) {
	t.Parallel()

	svc, gdb, pub := newTestService(t)
	order := newPendingOrder(t, svc, gdb, 1)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, dec("260.00").Equal(order.TotalAmount), order.TotalAmount.String())
	assert.True(t, dec("10.00").Equal(order.ShippingPrice))
	assert.Equal(t, "credit_card", order.PaymentMethod)
	assert.False(t, order.IsPaid)

	loaded, err := svc.GetOrderWithItems(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)

	sum := loaded.ShippingPrice
	for _, it := range loaded.Items {
		assert.True(t, it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Equal(it.TotalPrice))
		sum = sum.Add(it.TotalPrice)
	}
	assert.True(t, sum.Equal(loaded.TotalAmount))
	require.NotNil(t, loaded.User)
	assert.EqualValues(t, 1, loaded.User.ID)

	var left int64
	require.NoError(t, gdb.Model(&models.CartLine{}).Where("user_id = ?", 1).Count(&left).Error)
	assert.Zero(t, left)

	assert.Equal(t, []events.Type{events.OrderCreated}, pub.types())
}

func TestCreateFromCart_EmptyCart(t *testing.T) {
	t.Parallel()

	svc, gdb, pub := newTestService(t)
	seedUser(t, gdb, 1)
	seedCart(t, gdb, 2, line(1, 1, "5.00"))

	_, err := svc.CreateFromCart(context.Background(), 1, ShippingDetails{}, "cash")
	require.ErrorIs(t, err, ErrEmptyCart)

	var orders, items, cart int64
	require.NoError(t, gdb.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, gdb.Model(&models.OrderItem{}).Count(&items).Error)
	require.NoError(t, gdb.Model(&models.CartLine{}).Count(&cart).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.EqualValues(t, 1, cart)
	assert.Empty(t, pub.types())
}

func TestCreateFromCart_RollsBackWhenCartClearFails(t *testing.T) {
	t.Parallel()

	svc, gdb, pub := newTestService(t)
	seedUser(t, gdb, 1)
	seedCart(t, gdb, 1, line(1, 2, "100.00"), line(2, 1, "50.00"))

	var ordersInTx int64
	require.NoError(t, gdb.Callback().Delete().Before("gorm:delete").Register("test:fail_cart_clear", func(tx *gorm.DB) {
		if tx.Statement.Table != "cart_items" {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).Model(&models.Order{}).Count(&ordersInTx)
		_ = tx.AddError(errors.New("cart_items locked"))
	}))

	_, err := svc.CreateFromCart(context.Background(), 1, ShippingDetails{}, "cash")
	require.ErrorIs(t, err, ErrPersistence)
	assert.EqualValues(t, 1, ordersInTx, "order row was written before the cart clear")

	var orders, items, cart int64
	require.NoError(t, gdb.Unscoped().Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, gdb.Unscoped().Model(&models.OrderItem{}).Count(&items).Error)
	require.NoError(t, gdb.Model(&models.CartLine{}).Where("user_id = ?", 1).Count(&cart).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.EqualValues(t, 2, cart)
	assert.Empty(t, pub.types())
}

func TestCreateFromCart_ZeroQuantityLine(t *testing.T) {
	t.Parallel()

	svc, gdb, _ := newTestService(t)
	seedUser(t, gdb, 1)
	seedCart(t, gdb, 1, line(1, 1, "10.00"), line(2, 0, "5.00"))

	_, err := svc.CreateFromCart(context.Background(), 1, ShippingDetails{}, "cash")
	require.ErrorIs(t, err, ErrValidation)

	var orders, cart int64
	require.NoError(t, gdb.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, gdb.Model(&models.CartLine{}).Where("user_id = ?", 1).Count(&cart).Error)
	assert.Zero(t, orders)
	assert.EqualValues(t, 2, cart)
}

func TestCreateFromCart_ShippingPolicy(t *testing.T) {
	t.Parallel()

	svc, gdb, _ := newTestService(t)
	svc.Shipping = FlatShipping{Amount: dec("0")}
	seedUser(t, gdb, 4)
	seedCart(t, gdb, 4, line(9, 3, "12.50"))

	order, err := svc.CreateFromCart(context.Background(), 4, ShippingDetails{}, "cash")
	require.NoError(t, err)
	assert.True(t, dec("37.50").Equal(order.TotalAmount), order.TotalAmount.String())
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	svc, gdb, pub := newTestService(t)
	order := newPendingOrder(t, svc, gdb, 1)
	ctx := context.Background()

	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.Now = fixedClock(t1, t1.Add(time.Hour))

	first, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, first.DeliveredAt)
	assert.True(t, first.IsDelivered)

	second, err := svc.UpdateStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, second.DeliveredAt)
	assert.WithinDuration(t, t1, *second.DeliveredAt, time.Second)

	loaded, err := svc.GetOrderWithItems(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, loaded.Status)
	require.NotNil(t, loaded.DeliveredAt)
	assert.WithinDuration(t, t1, *loaded.DeliveredAt, time.Second)

	assert.Equal(t, []events.Type{events.OrderCreated, events.OrderStatusChanged, events.OrderStatusChanged}, pub.types())
}

func TestUpdateStatus_Errors(t *testing.T) {
	t.Parallel()

	svc, gdb, _ := newTestService(t)
	order := newPendingOrder(t, svc, gdb, 1)

	tests := []struct {
		name    string
		orderID uint
		status  models.OrderStatus
		want    error
	}{
		{name: "unknown status", orderID: order.ID, status: "lost", want: ErrValidation},
		{name: "missing order", orderID: 999, status: models.OrderStatusShipped, want: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(context.Background(), tt.orderID, tt.status)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGetOrderWithItems_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.GetOrderWithItems(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUserOrders(t *testing.T) {
	t.Parallel()

	svc, gdb, _ := newTestService(t)
	newPendingOrder(t, svc, gdb, 1)
	seedCart(t, gdb, 1, line(3, 1, "1.00"))
	_, err := svc.CreateFromCart(context.Background(), 1, ShippingDetails{}, "cash")
	require.NoError(t, err)
	newPendingOrder(t, svc, gdb, 2)

	orders, total, err := svc.ListUserOrders(context.Background(), 1, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, orders, 1)
	assert.EqualValues(t, 1, orders[0].UserID)

	all, total, err := svc.ListOrders(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)
}
