package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
)

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingZip     string `json:"shipping_zip"`
	ShippingCountry string `json:"shipping_country"`
	PaymentMethod   string `json:"payment_method"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type PayOrderRequest struct {
	Reference string            `json:"reference"`
	Details   map[string]string `json:"details"`
}

type RefundRequest struct {
	OrderID uint            `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	Reason  string          `json:"reason"`
}

type OrderList struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Size   int            `json:"size"`
}

type TransactionList struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	Size         int                  `json:"size"`
}

type PointsResponse struct {
	UserID       uint  `json:"user_id"`
	PointsEarned int64 `json:"points_earned"`
	Balance      int64 `json:"balance"`
}
