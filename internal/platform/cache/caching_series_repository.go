// Package cache はリポジトリインターフェースに対するキャッシュ実装を提供します。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"wealth_backend/internal/feature/stock/domain/entity"
	"wealth_backend/internal/feature/stock/usecase"
)

// CachingSeriesRepository は SeriesRepository をRedisキャッシュでデコレートします。
// 同じキーへの同時ミスは singleflight で1回の上流呼び出しにまとめます。
type CachingSeriesRepository struct {
	inner     usecase.SeriesRepository
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
	group     singleflight.Group
}

var _ usecase.SeriesRepository = (*CachingSeriesRepository)(nil)

// NewCachingSeriesRepository は SeriesRepository をRedisキャッシュでデコレートします。
// ttl が nil の場合は次の午前8時（日本時間）まで、namespace が空の場合は "ohlcv" を使います。
// rdb が nil の場合はキャッシュを使わず、同時ミスの集約だけを行います。
func NewCachingSeriesRepository(rdb *redis.Client, ttl func() time.Duration, inner usecase.SeriesRepository, namespace string) *CachingSeriesRepository {
	if ttl == nil {
		ttl = TimeUntilNext8AM
	}
	if namespace == "" {
		namespace = "ohlcv"
	}
	return &CachingSeriesRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FetchSeries はキャッシュを確認し、無ければ上流から取得してキャッシュに保存します。
func (c *CachingSeriesRepository) FetchSeries(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
	key := c.cacheKey(q)

	// 1) キャッシュを確認（Redis未設定ならスキップ）
	if c.rdb != nil {
		if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			var out entity.Series
			if err := json.Unmarshal(b, &out); err == nil {
				return out, nil
			}
			// 壊れたキャッシュは削除
			_ = c.rdb.Del(ctx, key).Err()
		}
	}

	// 2) 上流から取得（同一キーの同時ミスは1回にまとめる）
	// 共有の取得は最初の呼び出し元のキャンセルに巻き込まれないよう切り離し、
	// 各呼び出し元は自分の ctx だけで待機を打ち切る
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		out, err := c.inner.FetchSeries(fetchCtx, q)
		if err != nil {
			return entity.Series{}, err
		}
		c.store(fetchCtx, key, out)
		return out, nil
	})

	select {
	case <-ctx.Done():
		return entity.Series{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return entity.Series{}, res.Err
		}
		if res.Shared {
			slog.Debug("ohlcv fetch shared with concurrent request", "key", key)
		}
		return res.Val.(entity.Series), nil
	}
}

// store はキャッシュに保存します（ベストエフォート）。
func (c *CachingSeriesRepository) store(ctx context.Context, key string, s entity.Series) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl()).Err(); err != nil {
		slog.Warn("failed to store ohlcv cache", "key", key, "error", err)
	}
}

// Invalidate は companyName の全期間のキャッシュを削除します。
func (c *CachingSeriesRepository) Invalidate(ctx context.Context, companyName string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(companyName)+"*")
}

// cacheKey は "ohlcv:<銘柄名>:<期間>:<終了日>" 形式のキーを返します。
func (c *CachingSeriesRepository) cacheKey(q entity.SeriesQuery) string {
	return fmt.Sprintf("%s%s:%s",
		c.cacheKeyPrefix(q.CompanyName),
		safe(string(q.Timeframe)),
		q.Last.Format("2006-01-02"),
	)
}

func (c *CachingSeriesRepository) cacheKeyPrefix(companyName string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(strings.ToLower(companyName)))
}

// deleteByPattern はパターンに一致するキーをSCANで探して削除します。
func (c *CachingSeriesRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe はRedisキーで問題になる文字を置き換えます。
func safe(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
