package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wealth_backend/internal/shared/apperr"
)

// setupTestDB はテスト用のインメモリSQLiteを用意します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// :memory: は接続ごとに別DBになるため1接続に固定
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&StockSummaryModel{}), "failed to migrate table")
	return db
}

func TestMockSummarySource_SameRecordForAnyTicker(t *testing.T) {
	t.Parallel()

	src := NewMockSummarySource()
	a, err := src.Summary(context.Background(), "AAPL")
	require.NoError(t, err)
	b, err := src.Summary(context.Background(), "UNKNOWN")
	require.NoError(t, err)

	assert.Equal(t, MockSummary, a)
	assert.Equal(t, a, b)
}

func TestSummaryGorm_Summary(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	require.NoError(t, db.Create(&StockSummaryModel{
		Ticker: "AAPL", Name: "Apple Inc.", Open: 1, High: 2, Low: 0.5, Close: 1.5,
		Volume: 100, OutstandingSecurities: 1000,
	}).Error)

	repo := NewSummaryRepository(db)

	got, err := repo.Summary(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", got.Name)
	assert.Equal(t, 1.5, got.Close)
	assert.Equal(t, int64(1000), got.OutstandingSecurities)

	_, err = repo.Summary(context.Background(), "MSFT")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
