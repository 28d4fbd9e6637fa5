package cache

import (
	"context"

	"github.com/Skotchmaster/shop_orders/services/order/internal/events"
)

// Invalidator is an event sink that drops the views an order event makes
// stale.
type Invalidator struct {
	Store *Store
}

func (i *Invalidator) Name() string { return "cache" }

func (i *Invalidator) Handle(ctx context.Context, ev events.Event) error {
	return i.Store.InvalidateOrder(ctx, ev.OrderID, ev.UserID)
}
