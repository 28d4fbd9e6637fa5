package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Skotchmaster/shop_orders/pkg/db"
	"github.com/Skotchmaster/shop_orders/services/order/internal/events"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
	"github.com/Skotchmaster/shop_orders/services/order/internal/repo"
)

type PaymentDetails struct {
	Reference string
	Details   map[string]string
}

// PointsFor returns the loyalty points earned for a paid total, rounded
// down to a whole point.
func (s *OrderService) PointsFor(order *models.Order) int64 {
	return order.TotalAmount.Mul(s.pointsRate()).Floor().IntPart()
}

// ProcessPayment settles an unpaid order: it marks the order paid, records
// the payment transaction with its details and credits the user's points.
// Either all of it is committed or none of it.
func (s *OrderService) ProcessPayment(ctx context.Context, orderID uint, details PaymentDetails) (*models.Order, error) {
	var (
		order *models.Order
		trx   *models.Transaction
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.LockOrder(ctx, orderID)
		if err != nil {
			return lookupErr("load order", fmt.Sprintf("order %d", orderID), err)
		}
		if order.IsPaid {
			return fmt.Errorf("%w: %s", ErrAlreadyPaid, order.OrderNumber)
		}

		res, err := s.gateway().Charge(ctx, ChargeRequest{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			UserID:        order.UserID,
			Amount:        order.TotalAmount,
			Currency:      s.currency(),
			PaymentMethod: order.PaymentMethod,
			Reference:     details.Reference,
		})
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPaymentDeclined, order.OrderNumber, err)
		}
		if !res.Approved {
			return fmt.Errorf("%w: %s: %s", ErrPaymentDeclined, order.OrderNumber, res.Reason)
		}

		paidAt := s.now()
		won, err := tx.MarkPaid(ctx, order.ID, paidAt)
		if err != nil {
			return storageErr("mark order paid", err)
		}
		if !won {
			return fmt.Errorf("%w: %s", ErrAlreadyPaid, order.OrderNumber)
		}
		order.IsPaid = true
		order.PaidAt = &paidAt
		order.Status = models.OrderStatusProcessing

		points := s.PointsFor(order)
		trx = &models.Transaction{
			TransactionNumber: newNumber("TRX-"),
			UserID:            order.UserID,
			OrderID:           &order.ID,
			Type:              models.TransactionPayment,
			Amount:            order.TotalAmount,
			PaymentMethod:     order.PaymentMethod,
			Status:            models.TransactionSuccess,
			Currency:          s.currency(),
			PointsEarned:      points,
			Notes:             "Payment for order " + order.OrderNumber,
		}
		if details.Reference != "" {
			ref := details.Reference
			trx.ExternalReference = &ref
		}
		if err := tx.CreateTransaction(ctx, trx); err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrAlreadyPaid, order.OrderNumber)
			}
			return storageErr("create payment transaction", err)
		}

		keys := make([]string, 0, len(details.Details))
		for k := range details.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := tx.AddTransactionDetail(ctx, trx.ID, k, details.Details[k]); err != nil {
				return storageErr("add transaction detail", err)
			}
		}

		if err := tx.AddPoints(ctx, order.UserID, points); err != nil {
			return lookupErr("add points", fmt.Sprintf("user %d", order.UserID), err)
		}
		return nil
	})
	if err != nil {
		return nil, txErr("process payment", err)
	}

	ev := orderEvent(events.OrderPaid, order)
	ev.PointsEarned = trx.PointsEarned
	ev.TransactionNumber = trx.TransactionNumber
	s.publish(ctx, ev)
	return order, nil
}
