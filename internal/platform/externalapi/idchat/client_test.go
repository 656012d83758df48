package idchat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"wealth_backend/internal/platform/metrics"
	"wealth_backend/internal/shared/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, attempts int) (*Client, *metrics.Upstream) {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	m := metrics.NewUpstream(prometheus.NewRegistry())
	cfg := Config{BaseURL: server.URL + "/", MaxAttempts: attempts, RetryBackoff: time.Millisecond}
	return NewClient(cfg, server.Client(), nil, m), m
}

func TestClient_Post_Success(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/companydatasearch", r.URL.Path)
		assert.Equal(t, "query=Toyota%20Motor%20Corp", r.URL.RawQuery)
		assert.Equal(t, int64(0), r.ContentLength)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}, 1)

	q := url.Values{}
	q.Set("query", "Toyota Motor Corp")
	body, err := c.Post(context.Background(), "/companydatasearch", q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestClient_Post_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}, 3)

	_, err := c.Post(context.Background(), "/llm", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsCounter().WithLabelValues("/llm", "502")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsCounter().WithLabelValues("/llm", "200")))
}

func TestClient_Post_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, 2)

	_, err := c.Post(context.Background(), "/ohlcv", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Post_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, 3)

	_, err := c.Post(context.Background(), "/ohlcv", nil)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Post_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	m := metrics.NewUpstream(prometheus.NewRegistry())
	c := NewClient(Config{BaseURL: base, MaxAttempts: 2, RetryBackoff: time.Millisecond}, &http.Client{Timeout: time.Second}, nil, m)

	_, err := c.Post(context.Background(), "/llm", nil)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsCounter().WithLabelValues("/llm", "error")))
}

func TestClient_Post_ContextCanceled(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 5)
	c.cfg.RetryBackoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Post(ctx, "/llm", nil)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
