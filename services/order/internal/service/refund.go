package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_orders/services/order/internal/events"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
	"github.com/Skotchmaster/shop_orders/services/order/internal/repo"
)

// ProcessRefund records a successful refund against the order's last
// successful payment. Who may refund, and how much in total, is decided by
// the caller.
func (s *OrderService) ProcessRefund(ctx context.Context, orderID uint, amount decimal.Decimal, reason string) (*models.Transaction, error) {
	var refund *models.Transaction
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		original, err := tx.LastSuccessfulPayment(ctx, orderID)
		if err != nil {
			return lookupErr("load payment", fmt.Sprintf("successful payment for order %d", orderID), err)
		}
		if amount.IsNegative() {
			return fmt.Errorf("%w: refund amount must be >= 0", ErrValidation)
		}

		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return lookupErr("load order", fmt.Sprintf("order %d", orderID), err)
		}

		refund = &models.Transaction{
			TransactionNumber: newNumber("REF-"),
			UserID:            original.UserID,
			OrderID:           &order.ID,
			Type:              models.TransactionRefund,
			Amount:            amount,
			PaymentMethod:     original.PaymentMethod,
			Status:            models.TransactionSuccess,
			Currency:          original.Currency,
			PointsEarned:      0,
			Notes:             fmt.Sprintf("Refund for order %s: %s", order.OrderNumber, reason),
		}
		if err := tx.CreateTransaction(ctx, refund); err != nil {
			return storageErr("create refund transaction", err)
		}
		if err := tx.AddTransactionDetail(ctx, refund.ID, "reason", reason); err != nil {
			return storageErr("add transaction detail", err)
		}
		if err := tx.AddTransactionDetail(ctx, refund.ID, "original_transaction", original.TransactionNumber); err != nil {
			return storageErr("add transaction detail", err)
		}

		refund, err = tx.GetTransactionWithDetails(ctx, refund.ID)
		if err != nil {
			return storageErr("reload refund", err)
		}
		return nil
	})
	if err != nil {
		return nil, txErr("process refund", err)
	}

	ev := events.Event{
		Type:              events.OrderRefunded,
		OrderID:           orderID,
		UserID:            refund.UserID,
		Amount:            refund.Amount,
		TransactionNumber: refund.TransactionNumber,
	}
	if refund.Order != nil {
		ev.OrderNumber = refund.Order.OrderNumber
		ev.Status = string(refund.Order.Status)
	}
	s.publish(ctx, ev)
	return refund, nil
}
