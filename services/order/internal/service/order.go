package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_orders/services/order/internal/events"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
	"github.com/Skotchmaster/shop_orders/services/order/internal/repo"
)

var DefaultPointsRate = decimal.RequireFromString("0.10")

type OrderService struct {
	Repo     *repo.GormRepo
	Gateway  PaymentGateway
	Shipping ShippingPolicy
	Events   events.Publisher

	// PointsRate is the share of a paid total credited as points. Nil means
	// DefaultPointsRate; zero disables accrual.
	PointsRate *decimal.Decimal
	Currency   string

	Now func() time.Time
}

type ShippingDetails struct {
	Address string
	City    string
	State   string
	Zip     string
	Country string
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OrderService) gateway() PaymentGateway {
	if s.Gateway == nil {
		return ApproveAllGateway{}
	}
	return s.Gateway
}

func (s *OrderService) shipping() ShippingPolicy {
	if s.Shipping == nil {
		return FlatShipping{Amount: DefaultShippingPrice}
	}
	return s.Shipping
}

func (s *OrderService) pointsRate() decimal.Decimal {
	if s.PointsRate == nil {
		return DefaultPointsRate
	}
	return *s.PointsRate
}

func (s *OrderService) currency() string {
	if s.Currency == "" {
		return models.DefaultCurrency
	}
	return s.Currency
}

func (s *OrderService) publish(ctx context.Context, ev events.Event) {
	if s.Events == nil {
		return
	}
	ev.OccurredAt = s.now()
	s.Events.Publish(ctx, ev)
}

func orderEvent(typ events.Type, o *models.Order) events.Event {
	return events.Event{
		Type:        typ,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      string(o.Status),
		Amount:      o.TotalAmount,
	}
}

func newNumber(prefix string) string {
	return prefix + uuid.NewString()
}

// CreateFromCart turns the user's cart into a pending order and empties the
// cart, all in one transaction.
func (s *OrderService) CreateFromCart(ctx context.Context, userID uint, shipping ShippingDetails, paymentMethod string) (*models.Order, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user_id required", ErrValidation)
	}

	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		lines, err := tx.GetUserCartItems(ctx, userID)
		if err != nil {
			return storageErr("read cart", err)
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: user %d", ErrEmptyCart, userID)
		}

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if line.Quantity == 0 {
				return fmt.Errorf("%w: cart line %d has zero quantity", ErrValidation, line.ID)
			}
			lineTotal := line.Subtotal()
			subtotal = subtotal.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.Price,
				TotalPrice: lineTotal,
			})
		}

		shippingPrice := s.shipping().Price(lines, subtotal)

		order = &models.Order{
			OrderNumber:     newNumber("ORD-"),
			UserID:          userID,
			Status:          models.OrderStatusPending,
			TotalAmount:     subtotal.Add(shippingPrice),
			ShippingPrice:   shippingPrice,
			ShippingAddress: shipping.Address,
			ShippingCity:    shipping.City,
			ShippingState:   shipping.State,
			ShippingZip:     shipping.Zip,
			ShippingCountry: shipping.Country,
			PaymentMethod:   strings.TrimSpace(paymentMethod),
			Items:           items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return storageErr("create order", err)
		}
		if err := tx.ClearUserCart(ctx, userID); err != nil {
			return storageErr("clear cart", err)
		}
		return nil
	})
	if err != nil {
		return nil, txErr("create order", err)
	}

	s.publish(ctx, orderEvent(events.OrderCreated, order))
	return order, nil
}

// UpdateStatus sets the order status. Delivering an order stamps
// delivered_at once; later deliveries keep the first timestamp.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		var err error
		order, err = tx.LockOrder(ctx, orderID)
		if err != nil {
			return lookupErr("load order", fmt.Sprintf("order %d", orderID), err)
		}

		order.Status = status
		if status == models.OrderStatusDelivered {
			order.IsDelivered = true
			if order.DeliveredAt == nil {
				now := s.now()
				order.DeliveredAt = &now
			}
		}

		if err := tx.UpdateOrderStatus(ctx, order); err != nil {
			return storageErr("update order status", err)
		}
		return nil
	})
	if err != nil {
		return nil, txErr("update order status", err)
	}

	s.publish(ctx, orderEvent(events.OrderStatusChanged, order))
	return order, nil
}

func (s *OrderService) GetOrderWithItems(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrderWithItems(ctx, orderID)
	if err != nil {
		return nil, lookupErr("get order", fmt.Sprintf("order %d", orderID), err)
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, int64, error) {
	orders, total, err := s.Repo.ListUserOrders(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, storageErr("list user orders", err)
	}
	return orders, total, nil
}

func (s *OrderService) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	orders, total, err := s.Repo.ListOrders(ctx, limit, offset)
	if err != nil {
		return nil, 0, storageErr("list orders", err)
	}
	return orders, total, nil
}
