package service

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
)

type ShippingPolicy interface {
	Price(lines []models.CartLine, subtotal decimal.Decimal) decimal.Decimal
}

var DefaultShippingPrice = decimal.RequireFromString("10.00")

// FlatShipping charges the same amount for every order.
type FlatShipping struct {
	Amount decimal.Decimal
}

func (f FlatShipping) Price([]models.CartLine, decimal.Decimal) decimal.Decimal {
	return f.Amount
}
