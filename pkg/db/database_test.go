package db_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_orders/pkg/db"
	"github.com/Skotchmaster/shop_orders/pkg/db/dbtest"
)

type uniqueRow struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex;not null"`
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "gorm duplicated key", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "pq unique violation", err: &pq.Error{Code: "23505"}, want: true},
		{name: "pq other code", err: &pq.Error{Code: "23503"}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, db.IsUniqueViolation(tt.err))
		})
	}
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	gdb := dbtest.Open(t, &uniqueRow{})

	require.NoError(t, gdb.Create(&uniqueRow{Code: "A"}).Error)
	err := gdb.Create(&uniqueRow{Code: "A"}).Error

	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestForUpdate_SkipsSQLite(t *testing.T) {
	gdb := dbtest.Open(t, &uniqueRow{})
	require.NoError(t, gdb.Create(&uniqueRow{Code: "B"}).Error)

	var row uniqueRow
	require.NoError(t, db.ForUpdate(gdb).Where("code = ?", "B").First(&row).Error)
	assert.Equal(t, "B", row.Code)
}
