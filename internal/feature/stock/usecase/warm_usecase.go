package usecase

import (
	"context"
	"log/slog"

	"wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/shared/ratelimiter"
)

// WarmUsecase はウォッチリストの銘柄を事前に取得し、キャッシュを温めます。
type WarmUsecase struct {
	stock       *StockUsecase
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewWarmUsecase は新しい WarmUsecase を作成します。stock にはキャッシュ付きのリポジトリを渡します。
func NewWarmUsecase(stock *StockUsecase, rateLimiter ratelimiter.RateLimiterInterface) *WarmUsecase {
	return &WarmUsecase{stock: stock, rateLimiter: rateLimiter}
}

// WarmAll は全銘柄×全期間の時系列を取得します。
// 1件の失敗で止めずにログに出力して次へ進み、成功件数を返します。
func (wu *WarmUsecase) WarmAll(ctx context.Context, companies []string, timeframes []entity.Timeframe) (int, error) {
	warmed := 0
	for _, company := range companies {
		for _, tf := range timeframes {
			if err := wu.rateLimiter.WaitIfNeeded(ctx); err != nil {
				return warmed, err
			}
			if _, err := wu.stock.GetSeries(ctx, company, string(tf)); err != nil {
				slog.Error("failed to warm ohlcv cache", "company", company, "timeframe", tf, "error", err)
				continue
			}
			warmed++
		}
	}
	return warmed, nil
}
