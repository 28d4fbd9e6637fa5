package repo

import (
	"context"

	"github.com/Skotchmaster/shop_orders/pkg/db"
	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
)

// GetUserCartItems returns the user's cart lines in insertion order. Inside a
// transaction the lines stay locked until it ends.
func (r *GormRepo) GetUserCartItems(ctx context.Context, userID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := db.ForUpdate(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) ClearUserCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{}).Error
}
