package models

import (
	"fmt"

	"gorm.io/gorm"
)

// PaymentSuccessIndex allows at most one live successful payment per order.
const PaymentSuccessIndex = "ux_transactions_order_payment_success"

// Migrate creates the tables owned by the order service and the points
// column on users.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Order{}, &OrderItem{}, &Transaction{}, &TransactionDetail{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	// Both postgres and sqlite accept partial indexes with this syntax.
	stmt := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON transactions (order_id) WHERE type = 'payment' AND status = 'success' AND deleted_at IS NULL",
		PaymentSuccessIndex,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("create %s: %w", PaymentSuccessIndex, err)
	}
	return nil
}
