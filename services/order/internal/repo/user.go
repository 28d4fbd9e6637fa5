package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
)

// AddPoints increments the balance in SQL so concurrent credits never lose
// an update. gorm.ErrRecordNotFound is returned when the user does not exist.
func (r *GormRepo) AddPoints(ctx context.Context, userID uint, points int64) error {
	res := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("points", gorm.Expr("points + ?", points))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
