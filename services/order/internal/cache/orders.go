package cache

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shop_orders/pkg/logging"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
)

type OrderReader interface {
	GetOrderWithItems(ctx context.Context, orderID uint) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, int64, error)
	ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
}

type page struct {
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

// CachedOrders serves order reads from Redis, falling back to Next on a miss
// or when Redis fails. Cache errors are logged and never returned.
type CachedOrders struct {
	Next  OrderReader
	Store *Store
}

func (c *CachedOrders) GetOrderWithItems(ctx context.Context, orderID uint) (*models.Order, error) {
	key := orderKey(orderID)

	var cached models.Order
	if err := c.Store.get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, ErrMiss) {
		logging.FromContext(ctx).Warn("cache_read_error", "key", key, "error", err)
	}

	order, err := c.Next.GetOrderWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := c.Store.set(ctx, key, userIndex(order.UserID), order); err != nil {
		logging.FromContext(ctx).Warn("cache_write_error", "key", key, "error", err)
	}
	return order, nil
}

func (c *CachedOrders) ListUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, int64, error) {
	return c.listPage(ctx, userPageKey(userID, limit, offset), userIndex(userID), func() ([]models.Order, int64, error) {
		return c.Next.ListUserOrders(ctx, userID, limit, offset)
	})
}

func (c *CachedOrders) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	return c.listPage(ctx, adminPageKey(limit, offset), adminIndex, func() ([]models.Order, int64, error) {
		return c.Next.ListOrders(ctx, limit, offset)
	})
}

func (c *CachedOrders) listPage(ctx context.Context, key, index string, load func() ([]models.Order, int64, error)) ([]models.Order, int64, error) {
	var cached page
	if err := c.Store.get(ctx, key, &cached); err == nil {
		return cached.Orders, cached.Total, nil
	} else if !errors.Is(err, ErrMiss) {
		logging.FromContext(ctx).Warn("cache_read_error", "key", key, "error", err)
	}

	orders, total, err := load()
	if err != nil {
		return nil, 0, err
	}
	if err := c.Store.set(ctx, key, index, page{Orders: orders, Total: total}); err != nil {
		logging.FromContext(ctx).Warn("cache_write_error", "key", key, "error", err)
	}
	return orders, total, nil
}
