package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
)

type TransactionFilter struct {
	Start  *time.Time
	End    *time.Time
	Status string
	Type   string
}

func byID(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }

func (r *GormRepo) CreateTransaction(ctx context.Context, trx *models.Transaction) error {
	return r.DB.WithContext(ctx).Create(trx).Error
}

func (r *GormRepo) AddTransactionDetail(ctx context.Context, transactionID uint, key, value string) error {
	return r.DB.WithContext(ctx).Create(&models.TransactionDetail{
		TransactionID: transactionID,
		Key:           key,
		Value:         value,
	}).Error
}

// LastSuccessfulPayment returns the most recent successful payment of the
// order.
func (r *GormRepo) LastSuccessfulPayment(ctx context.Context, orderID uint) (*models.Transaction, error) {
	var trx models.Transaction
	err := r.DB.WithContext(ctx).
		Where("order_id = ? AND type = ? AND status = ?", orderID, models.TransactionPayment, models.TransactionSuccess).
		Order("created_at DESC").Order("id DESC").
		First(&trx).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *GormRepo) GetTransactionWithDetails(ctx context.Context, id uint) (*models.Transaction, error) {
	var trx models.Transaction
	err := r.DB.WithContext(ctx).
		Preload("Order").
		Preload("Details", byID).
		First(&trx, id).Error
	if err != nil {
		return nil, err
	}
	return &trx, nil
}

func (r *GormRepo) ListUserTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trxs []models.Transaction
	err := q.Preload("Order").
		Preload("Details", byID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&trxs).Error
	if err != nil {
		return nil, 0, err
	}
	return trxs, total, nil
}

func (r *GormRepo) SumPointsEarned(ctx context.Context, userID uint) (int64, error) {
	var sum int64
	err := r.DB.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("user_id = ? AND status = ?", userID, models.TransactionSuccess).
		Select("COALESCE(SUM(points_earned), 0)").
		Scan(&sum).Error
	return sum, err
}

// FilterUserTransactions returns every transaction of the user matching f,
// newest first, with its order.
func (r *GormRepo) FilterUserTransactions(ctx context.Context, userID uint, f TransactionFilter) ([]models.Transaction, error) {
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if f.Start != nil {
		q = q.Where("created_at >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("created_at <= ?", *f.End)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var trxs []models.Transaction
	if err := q.Preload("Order").Order("created_at DESC").Order("id DESC").Find(&trxs).Error; err != nil {
		return nil, err
	}
	return trxs, nil
}
