package service

import (
	"context"

	"github.com/shopspring/decimal"
)

type ChargeRequest struct {
	OrderID       uint
	OrderNumber   string
	UserID        uint
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	Reference     string
}

type ChargeResult struct {
	Approved bool
	Reason   string
}

// PaymentGateway is the seam to an external payment provider. Charge is
// called inside the payment transaction, before anything is written.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// ApproveAllGateway accepts every charge.
type ApproveAllGateway struct{}

func (ApproveAllGateway) Charge(context.Context, ChargeRequest) (ChargeResult, error) {
	return ChargeResult{Approved: true}, nil
}
