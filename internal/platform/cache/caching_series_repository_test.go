package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealth_backend/internal/feature/stock/domain/entity"
)

// mockSeriesRepository はテスト用のSeriesRepositoryモック実装です。
type mockSeriesRepository struct {
	fetchFn func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error)
	calls   atomic.Int32
}

func (m *mockSeriesRepository) FetchSeries(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
	m.calls.Add(1)
	if m.fetchFn != nil {
		return m.fetchFn(ctx, q)
	}
	return entity.Series{}, nil
}

const testKey = "ohlcv:apple:1W:2025-03-15"

var (
	testQuery  = entity.NewSeriesQuery("Apple", entity.Timeframe1W, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	testSeries = entity.Series{Name: "Apple Inc", Data: json.RawMessage(`{"2025-03-14":{"close":213.5}}`)}
	fixedTTL   = func() time.Duration { return time.Hour }
)

func TestNewCachingSeriesRepository_Defaults(t *testing.T) {
	t.Parallel()

	repo := NewCachingSeriesRepository(nil, nil, &mockSeriesRepository{}, "")
	assert.Equal(t, "ohlcv", repo.namespace)
	assert.NotNil(t, repo.ttl)
	assert.Equal(t, testKey, repo.cacheKey(testQuery))

	custom := NewCachingSeriesRepository(nil, fixedTTL, &mockSeriesRepository{}, "chart")
	assert.Equal(t, "chart", custom.namespace)
	assert.Equal(t, time.Hour, custom.ttl())
}

// TestCachingSeriesRepository_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingSeriesRepository_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockSeriesRepository{fetchFn: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
		return testSeries, nil
	}}
	repo := NewCachingSeriesRepository(nil, fixedTTL, inner, "")

	got, err := repo.FetchSeries(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", got.Name)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.NoError(t, repo.Invalidate(context.Background(), "Apple"))
}

func TestCachingSeriesRepository_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(testSeries)
	mock.ExpectGet(testKey).SetVal(string(cached))

	inner := &mockSeriesRepository{}
	repo := NewCachingSeriesRepository(rdb, fixedTTL, inner, "")

	got, err := repo.FetchSeries(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", got.Name)
	assert.JSONEq(t, string(testSeries.Data), string(got.Data))
	assert.Equal(t, int32(0), inner.calls.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSeriesRepository_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(testSeries)
	mock.ExpectGet(testKey).RedisNil()
	mock.ExpectSet(testKey, expected, time.Hour).SetVal("OK")

	inner := &mockSeriesRepository{fetchFn: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
		return testSeries, nil
	}}
	repo := NewCachingSeriesRepository(rdb, fixedTTL, inner, "")

	got, err := repo.FetchSeries(context.Background(), testQuery)
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc", got.Name)
	assert.Equal(t, int32(1), inner.calls.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSeriesRepository_CorruptedEntry(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, _ := json.Marshal(testSeries)
	mock.ExpectGet(testKey).SetVal("invalid json")
	mock.ExpectDel(testKey).SetVal(1)
	mock.ExpectSet(testKey, expected, time.Hour).SetVal("OK")

	inner := &mockSeriesRepository{fetchFn: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
		return testSeries, nil
	}}
	repo := NewCachingSeriesRepository(rdb, fixedTTL, inner, "")

	_, err := repo.FetchSeries(context.Background(), testQuery)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSeriesRepository_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet(testKey).RedisNil()

	want := errors.New("upstream down")
	inner := &mockSeriesRepository{fetchFn: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
		return entity.Series{}, want
	}}
	repo := NewCachingSeriesRepository(rdb, fixedTTL, inner, "")

	_, err := repo.FetchSeries(context.Background(), testQuery)
	assert.ErrorIs(t, err, want)
	// エラー時はキャッシュに保存しない
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingSeriesRepository_ConcurrentMissesCollapse(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	inner := &mockSeriesRepository{fetchFn: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
		<-release
		return testSeries, nil
	}}
	repo := NewCachingSeriesRepository(nil, fixedTTL, inner, "")

	const n = 5
	var wg sync.WaitGroup
	results := make([]entity.Series, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := repo.FetchSeries(context.Background(), testQuery)
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
	for _, r := range results {
		assert.Equal(t, "Apple Inc", r.Name)
	}
}

// TestCachingSeriesRepository_CanceledCallerDoesNotFailOthers は先に取得を始めた呼び出し元が
// キャンセルされても、同じキーを待つ他の呼び出し元は結果を受け取れることを検証します。
func TestCachingSeriesRepository_CanceledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	var startOnce sync.Once
	release := make(chan struct{})
	inner := &mockSeriesRepository{fetchFn: func(ctx context.Context, q entity.SeriesQuery) (entity.Series, error) {
		startOnce.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return entity.Series{}, err
		}
		return testSeries, nil
	}}
	repo := NewCachingSeriesRepository(nil, fixedTTL, inner, "")

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := repo.FetchSeries(firstCtx, testQuery)
		firstErr <- err
	}()
	<-started

	type result struct {
		s   entity.Series
		err error
	}
	second := make(chan result, 1)
	go func() {
		s, err := repo.FetchSeries(context.Background(), testQuery)
		second <- result{s, err}
	}()
	// 2件目が同じ取得に合流するのを待つ
	time.Sleep(20 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "Apple Inc", got.s.Name)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCachingSeriesRepository_Invalidate(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "ohlcv:toyota_motor:*", 200).SetVal([]string{"ohlcv:toyota_motor:1M:2025-03-15", "ohlcv:toyota_motor:1Y:2025-03-15"}, 0)
	mock.ExpectDel("ohlcv:toyota_motor:1M:2025-03-15", "ohlcv:toyota_motor:1Y:2025-03-15").SetVal(2)

	repo := NewCachingSeriesRepository(rdb, fixedTTL, &mockSeriesRepository{}, "")
	require.NoError(t, repo.Invalidate(context.Background(), "Toyota Motor"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "toyota_motor", safe(" toyota motor "))
	assert.Equal(t, "a_b_c", safe("a:b*c"))
}
