// Package usecase は株価時系列（OHLCV）取得のユースケースを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/shared/apperr"
)

// SeriesRepository は上流から時系列を取得するリポジトリです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesRepository interface {
	FetchSeries(ctx context.Context, q entity.SeriesQuery) (entity.Series, error)
}

// StockUsecase は銘柄名と期間から時系列を取得します。
type StockUsecase struct {
	repo SeriesRepository
	now  func() time.Time
}

// NewStockUsecase は StockUsecase を生成します。now が nil の場合は time.Now を使います。
func NewStockUsecase(repo SeriesRepository, now func() time.Time) *StockUsecase {
	if now == nil {
		now = time.Now
	}
	return &StockUsecase{repo: repo, now: now}
}

// Query は companyName と timeframe から今日を終端とする取得条件を組み立てます。
func (u *StockUsecase) Query(companyName, timeframe string) (entity.SeriesQuery, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return entity.SeriesQuery{}, fmt.Errorf("%w: companyName is required", apperr.ErrValidation)
	}
	return entity.NewSeriesQuery(companyName, entity.ParseTimeframe(timeframe), u.now()), nil
}

// GetSeries は上流から取得した銘柄名と日付別レコードを返します。
func (u *StockUsecase) GetSeries(ctx context.Context, companyName, timeframe string) (entity.Series, error) {
	q, err := u.Query(companyName, timeframe)
	if err != nil {
		return entity.Series{}, err
	}
	return u.repo.FetchSeries(ctx, q)
}

// GetPoints は時系列を描画用の Point 列（日付昇順）に正規化して返します。
func (u *StockUsecase) GetPoints(ctx context.Context, companyName, timeframe string) (entity.Series, []entity.Point, error) {
	s, err := u.GetSeries(ctx, companyName, timeframe)
	if err != nil {
		return entity.Series{}, nil, err
	}
	points, err := s.Points()
	if err != nil {
		return entity.Series{}, nil, err
	}
	return s, points, nil
}
