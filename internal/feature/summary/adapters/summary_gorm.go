package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"wealth_backend/internal/feature/summary/domain/entity"
	"wealth_backend/internal/feature/summary/usecase"
	"wealth_backend/internal/shared/apperr"
)

type summaryGorm struct {
	db *gorm.DB
}

var _ usecase.SummarySource = (*summaryGorm)(nil)

// NewSummaryRepository はDBの stock_summaries テーブルを読む SummarySource を生成します。
func NewSummaryRepository(db *gorm.DB) *summaryGorm {
	return &summaryGorm{db: db}
}

// StockSummaryModel は stock_summaries テーブルの行です。
type StockSummaryModel struct {
	Ticker                string  `gorm:"primaryKey;size:32"`
	Name                  string  `gorm:"size:255;not null"`
	Open                  float64 `gorm:"not null"`
	High                  float64 `gorm:"not null"`
	Low                   float64 `gorm:"not null"`
	Close                 float64 `gorm:"not null"`
	Volume                int64   `gorm:"not null;default:0"`
	OutstandingSecurities int64   `gorm:"not null;default:0"`
	UpdatedAt             time.Time
}

func (StockSummaryModel) TableName() string {
	return "stock_summaries"
}

func (r *summaryGorm) Summary(ctx context.Context, ticker string) (entity.Summary, error) {
	var m StockSummaryModel
	err := r.db.WithContext(ctx).Where("ticker = ?", ticker).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Summary{}, fmt.Errorf("%w: summary for %s", apperr.ErrNotFound, ticker)
	}
	if err != nil {
		return entity.Summary{}, err
	}
	return entity.Summary{
		Name:                  m.Name,
		Open:                  m.Open,
		High:                  m.High,
		Low:                   m.Low,
		Close:                 m.Close,
		Volume:                m.Volume,
		OutstandingSecurities: m.OutstandingSecurities,
	}, nil
}
