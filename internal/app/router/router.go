// Package router はginのルーティングを定義します。
package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	assistanthandler "wealth_backend/internal/feature/assistant/transport/handler"
	charthandler "wealth_backend/internal/feature/chart/transport/handler"
	companysearchhandler "wealth_backend/internal/feature/companysearch/transport/handler"
	intenthandler "wealth_backend/internal/feature/intent/transport/handler"
	portfoliohandler "wealth_backend/internal/feature/portfolio/transport/handler"
	stockhandler "wealth_backend/internal/feature/stock/transport/handler"
	summaryhandler "wealth_backend/internal/feature/summary/transport/handler"
	"wealth_backend/internal/platform/http/handler"
	"wealth_backend/internal/platform/http/middleware"
	jwtmw "wealth_backend/internal/platform/jwt"
	"wealth_backend/internal/platform/metrics"
)

// Deps はルーターが登録するハンドラーと横断的な設定です。
type Deps struct {
	CompanySearch *companysearchhandler.CompanySearchHandler
	Intent        *intenthandler.IntentHandler
	Stock         *stockhandler.StockHandler
	Summary       *summaryhandler.SummaryHandler
	Chart         *charthandler.ChartHandler
	Assistant     *assistanthandler.AssistantHandler
	Portfolio     *portfoliohandler.PortfolioHandler

	HTTPMetrics      *metrics.HTTP
	Gatherer         prometheus.Gatherer
	CORSAllowOrigins []string
	// JWTSecret が空の場合、APIは認証なしで公開されます。
	JWTSecret string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	if d.HTTPMetrics != nil {
		r.Use(d.HTTPMetrics.Middleware())
	}
	r.Use(cors.New(corsConfig(d.CORSAllowOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	r.GET("/metrics", metrics.Handler(d.Gatherer))

	api := r.Group("/")
	// <img> と WebSocket はヘッダーを付けられないため ?token= でも認証する
	browser := r.Group("/")
	if d.JWTSecret != "" {
		api.Use(jwtmw.AuthRequired(d.JWTSecret))
		browser.Use(jwtmw.AuthRequiredAllowQuery(d.JWTSecret))
	} else {
		slog.Warn("JWT_SECRET is not set. API routes are served without authentication.")
	}
	{
		browser.GET("/chart", d.Chart.GetChart)
		browser.GET("/assistant/ws", d.Assistant.Serve)
	}
	{
		api.POST("/companydatasearch", d.CompanySearch.Search)
		api.POST("/llm", d.Intent.Classify)
		api.POST("/stock", d.Stock.GetStock)
		api.POST("/summary", d.Summary.GetSummary)
		api.GET("/clients", d.Portfolio.ListClients)
		api.GET("/clients/:id", d.Portfolio.GetClient)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
