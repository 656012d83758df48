// Package usecase は銘柄サマリー取得のユースケースを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"wealth_backend/internal/feature/summary/domain/entity"
	"wealth_backend/internal/shared/apperr"
)

// SummarySource は銘柄サマリーの取得元です。見つからない場合は apperr.ErrNotFound を返します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SummarySource interface {
	Summary(ctx context.Context, ticker string) (entity.Summary, error)
}

// SummaryUsecase は銘柄サマリーを取得し、応答形式に変換します。
type SummaryUsecase struct {
	source SummarySource
}

// NewSummaryUsecase は SummaryUsecase を生成します。
func NewSummaryUsecase(source SummarySource) *SummaryUsecase {
	return &SummaryUsecase{source: source}
}

// GetSummary は ticker（大文字に正規化）のサマリーを返します。
func (u *SummaryUsecase) GetSummary(ctx context.Context, ticker string) (entity.Envelope, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return entity.Envelope{}, fmt.Errorf("%w: query is required", apperr.ErrValidation)
	}

	s, err := u.source.Summary(ctx, ticker)
	if err != nil {
		return entity.Envelope{}, err
	}
	return BuildEnvelope(ticker, s)
}
