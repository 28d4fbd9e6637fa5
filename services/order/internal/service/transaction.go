package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_orders/services/order/internal/models"
	"github.com/Skotchmaster/shop_orders/services/order/internal/repo"
)

func (s *OrderService) GetTransactionWithDetails(ctx context.Context, id uint) (*models.Transaction, error) {
	trx, err := s.Repo.GetTransactionWithDetails(ctx, id)
	if err != nil {
		return nil, lookupErr("get transaction", fmt.Sprintf("transaction %d", id), err)
	}
	return trx, nil
}

func (s *OrderService) ListUserTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	trxs, total, err := s.Repo.ListUserTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, storageErr("list user transactions", err)
	}
	return trxs, total, nil
}

// GetUserPointsEarned sums the points of the user's successful transactions.
func (s *OrderService) GetUserPointsEarned(ctx context.Context, userID uint) (int64, error) {
	n, err := s.Repo.SumPointsEarned(ctx, userID)
	if err != nil {
		return 0, storageErr("sum points", err)
	}
	return n, nil
}

// GetUserPointsBalance reads the user's current point balance.
func (s *OrderService) GetUserPointsBalance(ctx context.Context, userID uint) (int64, error) {
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return 0, lookupErr("get user", fmt.Sprintf("user %d", userID), err)
	}
	return user.Points, nil
}

type ReportFilter struct {
	Start  *time.Time
	End    *time.Time
	Status string
	Type   string
}

type StatusSummary struct {
	Success  int `json:"success"`
	Failed   int `json:"failed"`
	Pending  int `json:"pending"`
	Canceled int `json:"canceled"`
}

type Bucket struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type ReportRow struct {
	ID                uint            `json:"id"`
	TransactionNumber string          `json:"transaction_number"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Status            string          `json:"status"`
	PointsEarned      int64           `json:"points_earned"`
	Date              string          `json:"date"`
	OrderNumber       *string         `json:"order_number"`
}

type Report struct {
	TotalTransactions int               `json:"total_transactions"`
	TotalAmount       decimal.Decimal   `json:"total_amount"`
	StatusSummary     StatusSummary     `json:"status_summary"`
	ByType            map[string]Bucket `json:"by_type"`
	ByMonth           map[string]Bucket `json:"by_month"`
	PointsEarned      int64             `json:"points_earned"`
	Transactions      []ReportRow       `json:"transactions"`
}

func (s *OrderService) GenerateReport(ctx context.Context, userID uint, f ReportFilter) (*Report, error) {
	if f.Status != "" && !validTransactionStatus(f.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	if f.Type != "" && f.Type != string(models.TransactionPayment) && f.Type != string(models.TransactionRefund) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrValidation, f.Type)
	}
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return nil, fmt.Errorf("%w: end_date before start_date", ErrValidation)
	}

	trxs, err := s.Repo.FilterUserTransactions(ctx, userID, repo.TransactionFilter{
		Start:  f.Start,
		End:    f.End,
		Status: f.Status,
		Type:   f.Type,
	})
	if err != nil {
		return nil, storageErr("report transactions", err)
	}
	return buildReport(trxs), nil
}

func validTransactionStatus(s string) bool {
	switch models.TransactionStatus(s) {
	case models.TransactionPending, models.TransactionSuccess, models.TransactionFailed, models.TransactionCanceled:
		return true
	}
	return false
}

func addTo(m map[string]Bucket, key string, amount decimal.Decimal) {
	b := m[key]
	b.Count++
	b.Amount = b.Amount.Add(amount)
	m[key] = b
}

func buildReport(trxs []models.Transaction) *Report {
	r := &Report{
		TotalTransactions: len(trxs),
		TotalAmount:       decimal.Zero,
		ByType:            map[string]Bucket{},
		ByMonth:           map[string]Bucket{},
		Transactions:      make([]ReportRow, 0, len(trxs)),
	}

	for _, t := range trxs {
		r.TotalAmount = r.TotalAmount.Add(t.Amount)
		r.PointsEarned += t.PointsEarned

		switch t.Status {
		case models.TransactionSuccess:
			r.StatusSummary.Success++
		case models.TransactionFailed:
			r.StatusSummary.Failed++
		case models.TransactionPending:
			r.StatusSummary.Pending++
		case models.TransactionCanceled:
			r.StatusSummary.Canceled++
		}

		addTo(r.ByType, string(t.Type), t.Amount)
		addTo(r.ByMonth, t.CreatedAt.UTC().Format("2006-01"), t.Amount)

		row := ReportRow{
			ID:                t.ID,
			TransactionNumber: t.TransactionNumber,
			Type:              string(t.Type),
			Amount:            t.Amount,
			Status:            string(t.Status),
			PointsEarned:      t.PointsEarned,
			Date:              t.CreatedAt.UTC().Format(time.DateTime),
		}
		if t.Order != nil {
			n := t.Order.OrderNumber
			row.OrderNumber = &n
		}
		r.Transactions = append(r.Transactions, row)
	}
	return r
}
