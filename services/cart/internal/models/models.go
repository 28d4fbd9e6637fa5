package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one product line of a user's cart. Price is captured when the
// product is first added and is what the order snapshot charges.
type CartItem struct {
	ID        uint            `gorm:"primaryKey"                             json:"id"`
	UserID    uint            `gorm:"uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uint            `gorm:"uniqueIndex:idx_user_product;not null" json:"product_id"`
	Quantity  uint            `gorm:"default:1;check:quantity>0"            json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(15,2);not null"           json:"price"`
	CreatedAt time.Time       `                                             json:"created_at"`
	UpdatedAt time.Time       `                                             json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Product is the catalog's products table, read for prices.
type Product struct {
	ID    uint            `gorm:"primaryKey"           json:"id"`
	Name  string          `                            json:"name"`
	Price decimal.Decimal `gorm:"type:decimal(15,2)"   json:"price"`
	Count uint            `                            json:"count"`
}
