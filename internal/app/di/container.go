package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"wealth_backend/internal/app/router"
	assistanthandler "wealth_backend/internal/feature/assistant/transport/handler"
	assistantusecase "wealth_backend/internal/feature/assistant/usecase"
	"wealth_backend/internal/feature/chart/adapters/raster"
	charthandler "wealth_backend/internal/feature/chart/transport/handler"
	chartusecase "wealth_backend/internal/feature/chart/usecase"
	companysearchhandler "wealth_backend/internal/feature/companysearch/transport/handler"
	companysearchusecase "wealth_backend/internal/feature/companysearch/usecase"
	intenthandler "wealth_backend/internal/feature/intent/transport/handler"
	intentusecase "wealth_backend/internal/feature/intent/usecase"
	portfoliohandler "wealth_backend/internal/feature/portfolio/transport/handler"
	portfoliousecase "wealth_backend/internal/feature/portfolio/usecase"
	stockhandler "wealth_backend/internal/feature/stock/transport/handler"
	stockusecase "wealth_backend/internal/feature/stock/usecase"
	summaryhandler "wealth_backend/internal/feature/summary/transport/handler"
	summaryusecase "wealth_backend/internal/feature/summary/usecase"
	"wealth_backend/internal/platform/config"
	platformdb "wealth_backend/internal/platform/db"
	"wealth_backend/internal/platform/metrics"
	platformredis "wealth_backend/internal/platform/redis"
)

// App は組み立て済みのHTTPサーバー部品と、終了時に閉じる接続を保持します。
type App struct {
	Router   router.Deps
	Registry *prometheus.Registry

	closers []func() error
}

// Close は開いた接続を逆順に閉じます。
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build は cfg から全フィーチャーを組み立てます。
// Redisに接続できない場合はキャッシュなしで起動します。
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Registry: prometheus.NewRegistry()}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if db != nil {
		app.closers = append(app.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	}

	rdb := openRedis(ctx, cfg.Redis)
	if rdb != nil {
		app.closers = append(app.closers, rdb.Close)
	}

	// Upstream
	client := NewIDChatClient(cfg.IDChat, metrics.NewUpstream(app.Registry))
	series := NewSeriesRepository(rdb, client)
	completer, err := NewCompleter(ctx, cfg, client)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	// Repository
	summarySource, err := NewSummarySource(cfg.SummarySource, db)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	clientRepo, err := NewClientRepository(cfg.PortfolioSource, db)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	// Usecase
	searchUC := companysearchusecase.NewCompanySearchUsecase(client)
	intentUC := intentusecase.NewIntentUsecase(completer)
	stockUC := stockusecase.NewStockUsecase(series, time.Now)
	summaryUC := summaryusecase.NewSummaryUsecase(summarySource)
	chartUC := chartusecase.NewChartUsecase(stockUC, raster.NewRenderer(raster.DefaultTheme))
	assistantUC := assistantusecase.NewAssistantUsecase(intentUC, stockUC, summaryUC, searchUC)
	portfolioUC := portfoliousecase.NewPortfolioUsecase(clientRepo)

	// Handler
	app.Router = router.Deps{
		CompanySearch:    companysearchhandler.NewCompanySearchHandler(searchUC),
		Intent:           intenthandler.NewIntentHandler(intentUC),
		Stock:            stockhandler.NewStockHandler(stockUC),
		Summary:          summaryhandler.NewSummaryHandler(summaryUC),
		Chart:            charthandler.NewChartHandler(chartUC),
		Assistant:        assistanthandler.NewAssistantHandler(assistantUC, cfg.CORSAllowOrigins),
		Portfolio:        portfoliohandler.NewPortfolioHandler(portfolioUC),
		HTTPMetrics:      metrics.NewHTTP(app.Registry),
		Gatherer:         app.Registry,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		JWTSecret:        cfg.JWTSecret,
	}
	return app, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if !cfg.NeedsDatabase() {
		return nil, nil
	}
	db, err := platformdb.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		slog.Info("REDIS_HOST is not set, running without cache")
		return nil
	}
	rdb, err := platformredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
		return nil
	}
	return rdb
}
