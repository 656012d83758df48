package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wealth_backend/internal/app/di"
	"wealth_backend/internal/app/warmer"
	stockusecase "wealth_backend/internal/feature/stock/usecase"
	"wealth_backend/internal/platform/cache"
	"wealth_backend/internal/platform/config"
	"wealth_backend/internal/platform/logging"
	"wealth_backend/internal/platform/metrics"
	platformredis "wealth_backend/internal/platform/redis"
	"wealth_backend/internal/shared/ratelimiter"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("warmer exited with error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("warmer", flag.ContinueOnError)
	once := flags.Bool("once", false, "warm the cache once and exit")
	refresh := flags.Bool("refresh", false, "drop cached series before warming")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if !cfg.Redis.Enabled() {
		return errors.New("REDIS_HOST is required for the warmer")
	}

	wl, err := config.LoadWatchlist(cfg.WatchlistPath)
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := platformredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() { _ = rdb.Close() }()

	client := di.NewIDChatClient(cfg.IDChat, metrics.NewUpstream(nil))
	series := di.NewSeriesRepository(rdb, client)
	stockUC := stockusecase.NewStockUsecase(series, time.Now)
	// サーバーの流量を圧迫しないよう1秒1件に抑える
	warmUC := stockusecase.NewWarmUsecase(stockUC, ratelimiter.NewRateLimiter("warmer", 1, time.Second))

	s := warmer.NewScheduler(ctx, warmUC, series, wl, cache.Location())
	s.Refresh = *refresh

	if *once {
		return s.RunNow()
	}

	if err := s.Register(); err != nil {
		return fmt.Errorf("failed to register schedule: %w", err)
	}
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}
