package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_orders/services/order/internal/events"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
)

func countTransactions(t *testing.T, svc *OrderService, orderID uint, typ models.TransactionType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, svc.Repo.DB.
		Model(&models.Transaction{}).
		Where("order_id = ? AND type = ?", orderID, typ).
		Count(&n).Error)
	return n
}

func userPoints(t *testing.T, svc *OrderService, userID uint) int64 {
	t.Helper()
	points, err := svc.GetUserPointsBalance(context.Background(), userID)
	require.NoError(t, err)
	return points
}

func TestProcessPayment(t *testing.T) {
	t.Parallel()

	svc, gdb, pub := newTestService(t)
	order := newPendingOrder(t, svc, gdb, 1)
	ctx := context.Background()

	paid, err := svc.ProcessPayment(ctx, order.ID, PaymentDetails{
		Reference: "PG-123",
		Details:   map[string]string{"card_last4": "4242", "bank": "BCA"},
	})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, models.OrderStatusProcessing, paid.Status)

	trx, err := svc.Repo.LastSuccessfulPayment(ctx, order.ID)
	require.NoError(t, err)
	trx, err = svc.GetTransactionWithDetails(ctx, trx.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(trx.TransactionNumber, "TRX-"))
	assert.True(t, dec("260.00").Equal(trx.Amount))
	assert.EqualValues(t, 26, trx.PointsEarned)
	assert.Equal(t, models.DefaultCurrency, trx.Currency)
	assert.Equal(t, "Payment for order "+order.OrderNumber, trx.Notes)
	require.NotNil(t, trx.ExternalReference)
	assert.Equal(t, "PG-123", *trx.ExternalReference)

	require.Len(t, trx.Details, 2)
	assert.Equal(t, "bank", trx.Details[0].Key)
	assert.Equal(t, "card_last4", trx.Details[1].Key)

	assert.EqualValues(t, 26, userPoints(t, svc, 1))
	assert.Equal(t, []events.Type{events.OrderCreated, events.OrderPaid}, pub.types())
}

func TestProcessPayment_Twice(t *testing.T) {
	t.Parallel()

	svc, gdb, _ := newTestService(t)
	order := newPendingOrder(t, svc, gdb, 1)
	ctx := context.Background()

	_, err := svc.ProcessPayment(ctx, order.ID, PaymentDetails{})
	require.NoError(t, err)

	_, err = svc.ProcessPayment(ctx, order.ID, PaymentDetails{})
	require.ErrorIs(t, err, ErrAlreadyPaid)

	assert.EqualValues(t, 1, countTransactions(t, svc, order.ID, models.TransactionPayment))
	assert.EqualValues(t, 26, userPoints(t, svc, 1))
}

func TestProcessPayment_Concurrent(t *testing.T) {
	t.Parallel()

	svc, gdb, _ := newTestService(t)
	order := newPendingOrder(t, svc, gdb, 1)

	const workers = 4
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.ProcessPayment(context.Background(), order.ID, PaymentDetails{})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	}
	assert.Equal(t, 1, succeeded)
	assert.EqualValues(t, 1, countTransactions(t, svc, order.ID, models.TransactionPayment))
	assert.EqualValues(t, 26, userPoints(t, svc, 1))
}

func TestProcessPayment_ZeroPointsRate(t *testing.T) {
	t.Parallel()

	svc, gdb, _ := newTestService(t)
	zero := dec("0")
	svc.PointsRate = &zero
	order := newPendingOrder(t, svc, gdb, 1)

	_, err := svc.ProcessPayment(context.Background(), order.ID, PaymentDetails{})
	require.NoError(t, err)

	trx, err := svc.Repo.LastSuccessfulPayment(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Zero(t, trx.PointsEarned)
	assert.Zero(t, userPoints(t, svc, 1))
}

func TestProcessPayment_Declined(t *testing.T) {
	t.Parallel()

	svc, gdb, pub := newTestService(t)
	svc.Gateway = declineGateway{reason: "insufficient funds"}
	order := newPendingOrder(t, svc, gdb, 1)

	_, err := svc.ProcessPayment(context.Background(), order.ID, PaymentDetails{})
	require.ErrorIs(t, err, ErrPaymentDeclined)
	assert.ErrorContains(t, err, "insufficient funds")

	loaded, err := svc.GetOrderWithItems(context.Background(), order.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsPaid)
	assert.Nil(t, loaded.PaidAt)
	assert.Zero(t, countTransactions(t, svc, order.ID, models.TransactionPayment))
	assert.Zero(t, userPoints(t, svc, 1))
	assert.Equal(t, []events.Type{events.OrderCreated}, pub.types())
}

func TestProcessPayment_MissingUserRollsBack(t *testing.T) {
	t.Parallel()

	svc, gdb, _ := newTestService(t)
	order := newPendingOrder(t, svc, gdb, 1)
	require.NoError(t, gdb.Delete(&models.User{}, 1).Error)

	_, err := svc.ProcessPayment(context.Background(), order.ID, PaymentDetails{Details: map[string]string{"a": "b"}})
	require.ErrorIs(t, err, ErrNotFound)

	loaded, err := svc.GetOrderWithItems(context.Background(), order.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsPaid)
	assert.Equal(t, models.OrderStatusPending, loaded.Status)
	assert.Zero(t, countTransactions(t, svc, order.ID, models.TransactionPayment))

	var details int64
	require.NoError(t, gdb.Model(&models.TransactionDetail{}).Count(&details).Error)
	assert.Zero(t, details)
}

func TestProcessPayment_MissingOrder(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.ProcessPayment(context.Background(), 77, PaymentDetails{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPointsFor(t *testing.T) {
	t.Parallel()

	svc := &OrderService{}
	tests := []struct {
		total string
		want  int64
	}{
		{total: "260.00", want: 26},
		{total: "9.99", want: 0},
		{total: "109.99", want: 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.PointsFor(&models.Order{TotalAmount: dec(tt.total)}), tt.total)
	}

	rate := dec("0.05")
	svc.PointsRate = &rate
	assert.EqualValues(t, 13, svc.PointsFor(&models.Order{TotalAmount: dec("260.00")}))
}

func TestPaymentSuccessIndex(t *testing.T) {
	t.Parallel()

	svc, gdb, _ := newTestService(t)
	order := newPendingOrder(t, svc, gdb, 1)

	mk := func(number string) *models.Transaction {
		return &models.Transaction{
			TransactionNumber: number,
			UserID:            1,
			OrderID:           &order.ID,
			Type:              models.TransactionPayment,
			Amount:            order.TotalAmount,
			Status:            models.TransactionSuccess,
			Currency:          models.DefaultCurrency,
		}
	}

	require.NoError(t, gdb.Create(mk("TRX-a")).Error)
	err := gdb.Create(mk("TRX-b")).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE")
}
