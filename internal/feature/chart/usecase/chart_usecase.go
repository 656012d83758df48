// Package usecase は株価チャート画像を生成するユースケースを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"

	"wealth_backend/internal/feature/chart/domain/entity"
	stock "wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/shared/apperr"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400
	MinWidth      = 240
	MinHeight     = 120
	MaxWidth      = 4000
	MaxHeight     = 3000

	// NoDataMessage は点が1つも無い場合に描く文言です。
	NoDataMessage = "No chart data"
)

// PointsFetcher は描画用の時系列を取得します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PointsFetcher interface {
	GetPoints(ctx context.Context, companyName, timeframe string) (stock.Series, []stock.Point, error)
}

// Renderer はレイアウトを画像にします。
type Renderer interface {
	Render(l entity.Layout) ([]byte, error)
	RenderMessage(width, height int, msg string) ([]byte, error)
}

// ChartUsecase は時系列を取得してPNGを生成します。
type ChartUsecase struct {
	points   PointsFetcher
	renderer Renderer
}

// NewChartUsecase は ChartUsecase を生成します。
func NewChartUsecase(points PointsFetcher, renderer Renderer) *ChartUsecase {
	return &ChartUsecase{points: points, renderer: renderer}
}

// ValidateSize は画像サイズが許容範囲にあるかを検証します。
func ValidateSize(width, height int) error {
	if width < MinWidth || width > MaxWidth || height < MinHeight || height > MaxHeight {
		return fmt.Errorf("%w: size must be within %dx%d and %dx%d", apperr.ErrValidation, MinWidth, MinHeight, MaxWidth, MaxHeight)
	}
	return nil
}

// Chart は companyName の timeframe 期間のチャートをPNGで返します。
// 点が無い場合はエラーにせず、その旨を描いた画像を返します。
func (u *ChartUsecase) Chart(ctx context.Context, companyName, timeframe string, width, height int) ([]byte, error) {
	if err := ValidateSize(width, height); err != nil {
		return nil, err
	}

	_, points, err := u.points.GetPoints(ctx, companyName, timeframe)
	if err != nil {
		return nil, err
	}

	l, err := entity.NewLayout(points, width, height, stock.ParseTimeframe(timeframe))
	if errors.Is(err, entity.ErrEmptySeries) {
		return u.renderer.RenderMessage(width, height, NoDataMessage)
	}
	if err != nil {
		return nil, err
	}
	return u.renderer.Render(l)
}

// Message はチャートの代わりにメッセージを描いた画像を返します。
func (u *ChartUsecase) Message(width, height int, msg string) ([]byte, error) {
	if ValidateSize(width, height) != nil {
		width, height = DefaultWidth, DefaultHeight
	}
	return u.renderer.RenderMessage(width, height, msg)
}
