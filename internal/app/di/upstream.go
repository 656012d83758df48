// Package di は設定からアプリケーションの部品を組み立てます。
package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"wealth_backend/internal/feature/intent/adapters/gemini"
	intentusecase "wealth_backend/internal/feature/intent/usecase"
	portfolioadapters "wealth_backend/internal/feature/portfolio/adapters"
	portfoliousecase "wealth_backend/internal/feature/portfolio/usecase"
	summaryadapters "wealth_backend/internal/feature/summary/adapters"
	summaryusecase "wealth_backend/internal/feature/summary/usecase"
	"wealth_backend/internal/platform/cache"
	"wealth_backend/internal/platform/config"
	"wealth_backend/internal/platform/externalapi/idchat"
	platformhttp "wealth_backend/internal/platform/http"
	"wealth_backend/internal/platform/metrics"
	"wealth_backend/internal/shared/ratelimiter"
)

// NewIDChatClient はタイムアウト・リトライ・流量制限・メトリクス付きの上流クライアントを生成します。
func NewIDChatClient(cfg config.IDChatConfig, m *metrics.Upstream) *idchat.Client {
	httpClient := platformhttp.NewHTTPClient(cfg.Timeout)
	limiter := ratelimiter.NewRateLimiter("idchat", cfg.RatePerSec, time.Second)
	return idchat.NewClient(idchat.Config{
		BaseURL:      cfg.BaseURL,
		MaxAttempts:  cfg.MaxAttempts,
		RetryBackoff: cfg.RetryBackoff,
	}, httpClient, limiter, m)
}

// NewCompleter は LLM_PROVIDER に応じた意図分類用のCompleterを返します。
func NewCompleter(ctx context.Context, cfg *config.Config, client *idchat.Client) (intentusecase.Completer, error) {
	switch cfg.LLMProvider {
	case "gemini":
		g, err := gemini.NewGeminiCompleter(ctx, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "idchat":
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// NewSeriesRepository は上流のOHLCV取得をRedisキャッシュで包みます。rdb が nil ならキャッシュせず同時取得の集約だけ行います。
func NewSeriesRepository(rdb *redis.Client, client *idchat.Client) *cache.CachingSeriesRepository {
	return cache.NewCachingSeriesRepository(rdb, cache.TimeUntilNext8AM, client, "ohlcv")
}

// NewSummarySource は SUMMARY_SOURCE に応じたサマリー取得元を返します。
func NewSummarySource(source string, db *gorm.DB) (summaryusecase.SummarySource, error) {
	switch source {
	case "mock":
		return summaryadapters.NewMockSummarySource(), nil
	case "db":
		if db == nil {
			return nil, fmt.Errorf("summary source db requires a database")
		}
		return summaryadapters.NewSummaryRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown summary source %q", source)
	}
}

// NewClientRepository は PORTFOLIO_SOURCE に応じた顧客リポジトリを返します。
func NewClientRepository(source string, db *gorm.DB) (portfoliousecase.ClientRepository, error) {
	switch source {
	case "memory":
		return portfolioadapters.NewClientMemoryRepository(portfolioadapters.SampleClients), nil
	case "db":
		if db == nil {
			return nil, fmt.Errorf("portfolio source db requires a database")
		}
		return portfolioadapters.NewClientRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown portfolio source %q", source)
	}
}
