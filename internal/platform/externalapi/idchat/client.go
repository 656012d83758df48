package idchat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wealth_backend/internal/platform/metrics"
	"wealth_backend/internal/shared/apperr"
	"wealth_backend/internal/shared/ratelimiter"
)

// maxBodyBytes は上流レスポンスとして読み込む最大サイズです。
const maxBodyBytes = 16 << 20

// StatusError は上流が2xx以外を返したことを表します。
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("idchat %s: http %d", e.Path, e.Status)
}

// Client は idchat-api へのHTTPクライアントです。
// すべての呼び出しはボディなしのPOSTで、パラメータはクエリ文字列に載せます。
type Client struct {
	cfg     Config
	http    *http.Client
	limiter ratelimiter.RateLimiterInterface
	metrics *metrics.Upstream
}

// NewClient は Client を生成します。limiter と m は nil でも構いません。
func NewClient(cfg Config, httpClient *http.Client, limiter ratelimiter.RateLimiterInterface, m *metrics.Upstream) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient, limiter: limiter, metrics: m}
}

// Post は path にクエリ q を付けてPOSTし、レスポンスボディを返します。
// ネットワークエラーと5xxは線形バックオフで再試行し、4xxは再試行しません。
func (c *Client) Post(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := c.cfg.BaseURL + path
	if len(q) > 0 {
		// url.Values.Encode はスペースを "+" にするため、%20 に揃える
		u += "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.attempts(); attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * c.cfg.RetryBackoff
			slog.Warn("retrying upstream request", "path", path, "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %s: %w", apperr.ErrUpstream, path, ctx.Err())
			case <-time.After(wait):
			}
		}

		body, retry, err := c.do(ctx, path, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// do は1回分のリクエストを実行します。戻り値の bool は再試行可能かどうかです。
func (c *Client) do(ctx context.Context, path, u string) ([]byte, bool, error) {
	if c.limiter != nil {
		if err := c.limiter.WaitIfNeeded(ctx); err != nil {
			return nil, false, fmt.Errorf("%w: %s: %w", apperr.ErrUpstream, path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: build request: %w", apperr.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.Observe(path, 0, time.Since(start))
		return nil, true, fmt.Errorf("%w: %s: %w", apperr.ErrUpstream, path, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	c.metrics.Observe(path, res.StatusCode, time.Since(start))
	if err != nil {
		return nil, true, fmt.Errorf("%w: %s: read body: %w", apperr.ErrUpstream, path, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		statusErr := &StatusError{Path: path, Status: res.StatusCode}
		return nil, res.StatusCode >= 500, fmt.Errorf("%w: %w", apperr.ErrUpstream, statusErr)
	}
	return body, false, nil
}

// IsStatus は err が指定したステータスの StatusError を含むかを返します。
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}
