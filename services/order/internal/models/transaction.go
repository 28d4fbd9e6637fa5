package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionPayment TransactionType = "payment"
	TransactionRefund  TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionSuccess  TransactionStatus = "success"
	TransactionFailed   TransactionStatus = "failed"
	TransactionCanceled TransactionStatus = "canceled"
)

const DefaultCurrency = "IDR"

type Transaction struct {
	ID                uint                `gorm:"primaryKey"                          json:"id"`
	TransactionNumber string              `gorm:"size:64;uniqueIndex;not null"        json:"transaction_number"`
	UserID            uint                `gorm:"index;not null"                      json:"user_id"`
	OrderID           *uint               `gorm:"index"                               json:"order_id,omitempty"`
	Order             *Order              `gorm:"foreignKey:OrderID"                  json:"order,omitempty"`
	Type              TransactionType     `gorm:"size:20;index;not null"              json:"type"`
	Amount            decimal.Decimal     `gorm:"type:decimal(15,2);not null"         json:"amount"`
	PaymentMethod     string              `gorm:"size:50"                             json:"payment_method"`
	Status            TransactionStatus   `gorm:"size:20;index;not null"              json:"status"`
	Currency          string              `gorm:"size:3;not null;default:IDR"         json:"currency"`
	PointsEarned      int64               `gorm:"not null;default:0"                  json:"points_earned"`
	Notes             string              `gorm:"type:text"                           json:"notes,omitempty"`
	ExternalReference *string             `gorm:"size:255"                            json:"external_reference,omitempty"`
	Details           []TransactionDetail `gorm:"foreignKey:TransactionID"            json:"details,omitempty"`
	CreatedAt         time.Time           `                                           json:"created_at"`
	UpdatedAt         time.Time           `                                           json:"updated_at"`
	DeletedAt         gorm.DeletedAt      `gorm:"index"                               json:"-"`
}

type TransactionDetail struct {
	ID            uint           `gorm:"primaryKey"        json:"id"`
	TransactionID uint           `gorm:"index;not null"    json:"transaction_id"`
	Key           string         `gorm:"size:255;not null" json:"key"`
	Value         string         `gorm:"type:text"         json:"value"`
	CreatedAt     time.Time      `                         json:"created_at"`
	UpdatedAt     time.Time      `                         json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index"             json:"-"`
}
