package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_orders/pkg/db/dbtest"
	"github.com/Skotchmaster/shop_orders/services/order/internal/events"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
	"github.com/Skotchmaster/shop_orders/services/order/internal/repo"
)

type recordingPublisher struct {
	mu  sync.Mutex
	got []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, ev)
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.got))
	for _, ev := range p.got {
		out = append(out, ev.Type)
	}
	return out
}

type declineGateway struct{ reason string }

func (g declineGateway) Charge(context.Context, ChargeRequest) (ChargeResult, error) {
	return ChargeResult{Approved: false, Reason: g.reason}, nil
}

func newTestService(t *testing.T) (*OrderService, *gorm.DB, *recordingPublisher) {
	t.Helper()

	gdb := dbtest.Open(t, &models.CartLine{})
	require.NoError(t, models.Migrate(gdb))

	pub := &recordingPublisher{}
	svc := &OrderService{
		Repo:   repo.New(gdb),
		Events: pub,
	}
	return svc, gdb, pub
}

func seedUser(t *testing.T, gdb *gorm.DB, id uint) {
	t.Helper()
	require.NoError(t, gdb.Create(&models.User{ID: id, Username: "buyer"}).Error)
}

func seedCart(t *testing.T, gdb *gorm.DB, userID uint, lines ...models.CartLine) {
	t.Helper()
	for i := range lines {
		lines[i].UserID = userID
		require.NoError(t, gdb.Create(&lines[i]).Error)
	}
}

func line(productID, qty uint, price string) models.CartLine {
	return models.CartLine{ProductID: productID, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newPendingOrder seeds a user with a 260.00 order: 2 x 100.00 + 1 x 50.00
// plus flat shipping.
func newPendingOrder(t *testing.T, svc *OrderService, gdb *gorm.DB, userID uint) *models.Order {
	t.Helper()
	seedUser(t, gdb, userID)
	seedCart(t, gdb, userID, line(1, 2, "100.00"), line(2, 1, "50.00"))

	order, err := svc.CreateFromCart(context.Background(), userID, ShippingDetails{
		Address: "Jl. Sudirman 1",
		City:    "Jakarta",
		State:   "DKI",
		Zip:     "10210",
		Country: "ID",
	}, "credit_card")
	require.NoError(t, err)
	return order
}

func fixedClock(times ...time.Time) func() time.Time {
	var mu sync.Mutex
	i := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}
