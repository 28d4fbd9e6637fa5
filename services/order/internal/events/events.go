// Package events carries order lifecycle notifications to subscribers once
// the database transaction that caused them has committed.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderPaid          Type = "order.paid"
	OrderStatusChanged Type = "order.status_changed"
	OrderRefunded      Type = "order.refunded"
)

type Event struct {
	Type              Type            `json:"type"`
	OrderID           uint            `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	UserID            uint            `json:"user_id"`
	Status            string          `json:"status,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	PointsEarned      int64           `json:"points_earned,omitempty"`
	TransactionNumber string          `json:"transaction_number,omitempty"`
	OccurredAt        time.Time       `json:"occurred_at"`
}

// Sink consumes published events. Errors are reported to the bus, which
// logs them; they never reach the operation that emitted the event.
type Sink interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
