package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uint            `gorm:"primaryKey"                             json:"id"`
	OrderNumber     string          `gorm:"size:64;uniqueIndex;not null"           json:"order_number"`
	UserID          uint            `gorm:"index;not null"                         json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID"                      json:"user,omitempty"`
	Status          OrderStatus     `gorm:"size:20;index;not null;default:pending" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null"            json:"total_amount"`
	ShippingPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null"            json:"shipping_price"`
	ShippingAddress string          `gorm:"type:text"                              json:"shipping_address"`
	ShippingCity    string          `gorm:"size:100"                               json:"shipping_city"`
	ShippingState   string          `gorm:"size:100"                               json:"shipping_state"`
	ShippingZip     string          `gorm:"size:20"                                json:"shipping_zip"`
	ShippingCountry string          `gorm:"size:100"                               json:"shipping_country"`
	PaymentMethod   string          `gorm:"size:50"                                json:"payment_method"`
	IsPaid          bool            `gorm:"not null;default:false"                 json:"is_paid"`
	PaidAt          *time.Time      `                                              json:"paid_at,omitempty"`
	IsDelivered     bool            `gorm:"not null;default:false"                 json:"is_delivered"`
	DeliveredAt     *time.Time      `                                              json:"delivered_at,omitempty"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"                     json:"items,omitempty"`
	CreatedAt       time.Time       `                                              json:"created_at"`
	UpdatedAt       time.Time       `                                              json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"                                  json:"-"`
}

type OrderItem struct {
	ID         uint            `gorm:"primaryKey"                  json:"id"`
	OrderID    uint            `gorm:"index;not null"              json:"order_id"`
	ProductID  uint            `gorm:"index;not null"              json:"product_id"`
	Quantity   uint            `gorm:"not null;check:quantity>0"   json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_price"`
	CreatedAt  time.Time       `                                   json:"created_at"`
	UpdatedAt  time.Time       `                                   json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index"                       json:"-"`
}

// User is the slice of the shared users table the order core touches: the
// loyalty point balance.
type User struct {
	ID       uint   `gorm:"primaryKey"             json:"id"`
	Username string `gorm:"size:255"               json:"username"`
	Points   int64  `gorm:"not null;default:0"     json:"points"`
}

// CartLine is a read-only view of the cart service's cart_items table.
type CartLine struct {
	ID        uint            `gorm:"primaryKey"                  json:"id"`
	UserID    uint            `gorm:"index;not null"              json:"user_id"`
	ProductID uint            `gorm:"not null"                    json:"product_id"`
	Quantity  uint            `gorm:"not null"                    json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price"`
	CreatedAt time.Time       `                                   json:"created_at"`
	UpdatedAt time.Time       `                                   json:"updated_at"`
}

func (CartLine) TableName() string {
	return "cart_items"
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
