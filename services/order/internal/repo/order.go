package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_orders/pkg/db"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// LockOrder reads the order holding a row lock until the surrounding
// transaction ends.
func (r *GormRepo) LockOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.ForUpdate(r.DB.WithContext(ctx)).First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderWithItems(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("User").
		First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).
		Model(order).
		Select("status", "is_delivered", "delivered_at", "updated_at").
		Updates(order).Error
}

// MarkPaid flips is_paid only while it is still false. It reports whether
// this call was the one that did it.
func (r *GormRepo) MarkPaid(ctx context.Context, orderID uint, paidAt time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND is_paid = ?", orderID, false).
		Updates(map[string]any{
			"is_paid": true,
			"paid_at": paidAt,
			"status":  models.OrderStatusProcessing,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, int64, error) {
	return r.listOrders(ctx, r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID), limit, offset)
}

func (r *GormRepo) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	return r.listOrders(ctx, r.DB.WithContext(ctx).Model(&models.Order{}), limit, offset)
}

func (r *GormRepo) listOrders(ctx context.Context, q *gorm.DB, limit, offset int) ([]models.Order, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := q.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
