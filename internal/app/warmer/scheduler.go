// Package warmer はウォッチリストのOHLCVキャッシュを定期的に温めるスケジューラーです。
package warmer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/platform/config"
)

// Warmer は銘柄×期間の時系列を取得してキャッシュに載せます。
type Warmer interface {
	WarmAll(ctx context.Context, companies []string, timeframes []entity.Timeframe) (int, error)
}

// Invalidator は銘柄のキャッシュを削除します。
type Invalidator interface {
	Invalidate(ctx context.Context, companyName string) error
}

// Scheduler はcronでウォッチリストの取得を実行します。
type Scheduler struct {
	cron        *cron.Cron
	warmer      Warmer
	invalidator Invalidator
	watchlist   *config.Watchlist
	timeframes  []entity.Timeframe
	ctx         context.Context
	// Refresh が true の場合、取得前に既存のキャッシュを削除します。
	Refresh bool
}

// NewScheduler はウォッチリストのスケジュール（秒付き6フィールド、日本時間）で動く Scheduler を生成します。
func NewScheduler(ctx context.Context, w Warmer, inv Invalidator, wl *config.Watchlist, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		warmer:      w,
		invalidator: inv,
		watchlist:   wl,
		timeframes:  ParseTimeframes(wl.Timeframes),
		ctx:         ctx,
	}
}

// ParseTimeframes は期間の文字列を正規化し、重複を除きます。
func ParseTimeframes(values []string) []entity.Timeframe {
	seen := make(map[entity.Timeframe]bool, len(values))
	out := make([]entity.Timeframe, 0, len(values))
	for _, v := range values {
		tf := entity.ParseTimeframe(v)
		if seen[tf] {
			continue
		}
		seen[tf] = true
		out = append(out, tf)
	}
	return out
}

// Register はウォッチリストの取得をcronに登録します。
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.watchlist.Schedule, func() { _ = s.RunNow() }); err != nil {
		return fmt.Errorf("register warm task %q: %w", s.watchlist.Schedule, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("warmer scheduler started", "schedule", s.watchlist.Schedule, "companies", len(s.watchlist.Companies))
}

// Stop は新しい実行を止め、実行中のタスクの完了を待ちます。
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("warmer scheduler stopped")
}

// RunNow はウォッチリストの取得を即時に1回実行します。
func (s *Scheduler) RunNow() error {
	start := time.Now()
	if s.Refresh && s.invalidator != nil {
		for _, company := range s.watchlist.Companies {
			if err := s.invalidator.Invalidate(s.ctx, company); err != nil {
				slog.Warn("failed to invalidate ohlcv cache", "company", company, "error", err)
			}
		}
	}

	total := len(s.watchlist.Companies) * len(s.timeframes)
	warmed, err := s.warmer.WarmAll(s.ctx, s.watchlist.Companies, s.timeframes)
	if err != nil {
		slog.Error("warm run aborted", "warmed", warmed, "total", total, "error", err)
		return err
	}
	slog.Info("warm run finished", "warmed", warmed, "total", total, "elapsed", time.Since(start))
	return nil
}
