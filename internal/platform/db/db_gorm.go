// Package db はgormによるデータベース接続とマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	portfolioadapters "wealth_backend/internal/feature/portfolio/adapters"
	summaryadapters "wealth_backend/internal/feature/summary/adapters"
	"wealth_backend/internal/platform/config"
)

const connectTimeout = 60 * time.Second

// retryInterval は接続リトライの間隔です。テストで短縮します。
var retryInterval = 3 * time.Second

// Opener はDSNからDBを開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor はドライバ名に対応する Opener を返します。
func OpenerFor(driver string) (Opener, error) {
	var dial func(dsn string) gorm.Dialector
	switch driver {
	case "postgres":
		dial = postgres.Open
	case "sqlite":
		dial = sqlite.Open
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(dial(dsn), &gorm.Config{})
	}, nil
}

// ConnectWithRetry は timeout までの間、retryInterval ごとに接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Open は設定に従ってDBを開き、RunMigrations が有効ならマイグレーションを実行します。
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	open, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(cfg.DSN, connectTimeout, open)
	if err != nil {
		return nil, err
	}
	slog.Info("db connection successful", "driver", cfg.Driver)

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate はサマリーとポートフォリオのテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&summaryadapters.StockSummaryModel{},
		&portfolioadapters.ClientModel{},
		&portfolioadapters.HoldingModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
