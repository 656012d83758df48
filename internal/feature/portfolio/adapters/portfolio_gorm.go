package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"wealth_backend/internal/feature/portfolio/domain/entity"
	"wealth_backend/internal/feature/portfolio/usecase"
	"wealth_backend/internal/shared/apperr"
)

// ClientModel は clients テーブルの行です。
type ClientModel struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	Name        string         `gorm:"size:255;not null"`
	RiskProfile string         `gorm:"size:32;not null;default:'balanced'"`
	Holdings    []HoldingModel `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

func (ClientModel) TableName() string {
	return "clients"
}

// HoldingModel は holdings テーブルの行です。
type HoldingModel struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"`
	ClientID int64   `gorm:"not null;index:idx_holdings_client_ticker,unique"`
	Ticker   string  `gorm:"size:32;not null;index:idx_holdings_client_ticker,unique"`
	Quantity float64 `gorm:"not null"`
	AvgCost  float64 `gorm:"not null"`
}

func (HoldingModel) TableName() string {
	return "holdings"
}

type clientGorm struct {
	db *gorm.DB
}

var _ usecase.ClientRepository = (*clientGorm)(nil)

// NewClientRepository はDBの clients/holdings テーブルを読むリポジトリを生成します。
func NewClientRepository(db *gorm.DB) *clientGorm {
	return &clientGorm{db: db}
}

func (r *clientGorm) List(ctx context.Context) ([]entity.Client, error) {
	var rows []ClientModel
	if err := r.db.WithContext(ctx).
		Preload("Holdings", func(db *gorm.DB) *gorm.DB { return db.Order("ticker ASC") }).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Client, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

func (r *clientGorm) FindByID(ctx context.Context, id int64) (entity.Client, error) {
	var m ClientModel
	err := r.db.WithContext(ctx).
		Preload("Holdings", func(db *gorm.DB) *gorm.DB { return db.Order("ticker ASC") }).
		Where("id = ?", id).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Client{}, fmt.Errorf("%w: client %d", apperr.ErrNotFound, id)
	}
	if err != nil {
		return entity.Client{}, err
	}
	return toEntity(m), nil
}

func toEntity(m ClientModel) entity.Client {
	holdings := make([]entity.Holding, 0, len(m.Holdings))
	for _, h := range m.Holdings {
		holdings = append(holdings, entity.Holding{Ticker: h.Ticker, Quantity: h.Quantity, AvgCost: h.AvgCost})
	}
	return entity.Client{ID: m.ID, Name: m.Name, RiskProfile: m.RiskProfile, Holdings: holdings}
}
