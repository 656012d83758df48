// Package metrics はPrometheus向けのメトリクスを定義します。
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream は上流API呼び出しのメトリクスです。
type Upstream struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewUpstream は reg にメトリクスを登録して返します。reg が nil の場合は既定のレジストリを使います。
func NewUpstream(reg prometheus.Registerer) *Upstream {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Upstream{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wealth",
			Name:      "upstream_requests_total",
			Help:      "Upstream idchat-api requests by endpoint and outcome.",
		}, []string{"endpoint", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wealth",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream idchat-api requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// Observe は1回の上流呼び出しを記録します。status が 0 の場合はネットワークエラーとして "error" を記録します。
func (u *Upstream) Observe(endpoint string, status int, elapsed time.Duration) {
	if u == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	u.requests.WithLabelValues(endpoint, label).Inc()
	u.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// HTTP はサーバー側のリクエストメトリクスです。
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP は reg にHTTPメトリクスを登録して返します。
func NewHTTP(reg prometheus.Registerer) *HTTP {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &HTTP{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wealth",
			Name:      "http_requests_total",
			Help:      "HTTP requests served by route and status code.",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wealth",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Middleware はルート単位でリクエスト数とレイテンシを記録するginミドルウェアです。
func (h *HTTP) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		h.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler は gatherer の内容を公開する /metrics 用ハンドラーを返します。
func Handler(gatherer prometheus.Gatherer) gin.HandlerFunc {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	h := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// RequestsCounter はテストや集計のためにリクエスト数のカウンターを返します。
func (u *Upstream) RequestsCounter() *prometheus.CounterVec { return u.requests }
