// Package config は環境変数（と任意の .env ファイル）からアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はサーバー全体の設定を保持します。
type Config struct {
	Port string

	IDChat IDChatConfig

	// LLMProvider は意図分類に使うLLM（"idchat" または "gemini"）です。
	LLMProvider string
	GeminiModel string

	// SummarySource は銘柄サマリーの取得元（"mock" または "db"）です。
	SummarySource string
	// PortfolioSource は顧客ポートフォリオの取得元（"memory" または "db"）です。
	PortfolioSource string

	Database DatabaseConfig
	Redis    RedisConfig

	JWTSecret        string
	CORSAllowOrigins []string

	LogLevel string
	LogFile  string

	WatchlistPath string
}

// IDChatConfig は上流サービス（idchat-api）への接続設定です。
type IDChatConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
	RatePerSec   int
}

// DatabaseConfig はgormで開くデータベースの設定です。
type DatabaseConfig struct {
	Driver        string // "postgres" または "sqlite"
	DSN           string
	RunMigrations bool
}

// RedisConfig はキャッシュ用Redisの接続設定です。Hostが空ならキャッシュは無効です。
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled はRedisの接続先が設定されているかを返します。
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// Addr は "host:port" 形式のアドレスを返します。
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

// Load は .env（存在すれば）を読み込んだ後、環境変数から設定を組み立てます。
// 数値・真偽値・期間として解釈できない値があればまとめてエラーを返します。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		slog.Debug(".env not found; using system environment variables")
	}

	e := &envReader{}
	cfg := &Config{
		Port: getEnvOrDefault("PORT", "8080"),
		IDChat: IDChatConfig{
			BaseURL:      strings.TrimRight(os.Getenv("IDCHAT_API_BASE_URL"), "/"),
			Timeout:      e.durationVal("IDCHAT_TIMEOUT", 30*time.Second),
			MaxAttempts:  e.intVal("IDCHAT_MAX_ATTEMPTS", 3),
			RetryBackoff: e.durationVal("IDCHAT_RETRY_BACKOFF", 300*time.Millisecond),
			RatePerSec:   e.intVal("IDCHAT_RATE_PER_SEC", 10),
		},
		LLMProvider:     strings.ToLower(getEnvOrDefault("LLM_PROVIDER", "idchat")),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		SummarySource:   strings.ToLower(getEnvOrDefault("SUMMARY_SOURCE", "mock")),
		PortfolioSource: strings.ToLower(getEnvOrDefault("PORTFOLIO_SOURCE", "memory")),
		Database: DatabaseConfig{
			Driver:        strings.ToLower(getEnvOrDefault("DB_DRIVER", "postgres")),
			DSN:           os.Getenv("DATABASE_DSN"),
			RunMigrations: e.boolVal("RUN_MIGRATIONS", false),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CORSAllowOrigins: splitList(os.Getenv("CORS_ALLOW_ORIGINS")),
		LogLevel:         strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogFile:          os.Getenv("LOG_FILE"),
		WatchlistPath:    getEnvOrDefault("WATCHLIST_PATH", "configs/watchlist.yaml"),
	}

	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は必須項目と列挙値を検証します。
func (c *Config) Validate() error {
	if c.IDChat.BaseURL == "" {
		return fmt.Errorf("IDCHAT_API_BASE_URL is required")
	}
	if c.IDChat.MaxAttempts < 1 {
		return fmt.Errorf("IDCHAT_MAX_ATTEMPTS must be at least 1")
	}
	switch c.LLMProvider {
	case "idchat", "gemini":
	default:
		return fmt.Errorf("LLM_PROVIDER must be idchat or gemini, got %q", c.LLMProvider)
	}
	switch c.SummarySource {
	case "mock", "db":
	default:
		return fmt.Errorf("SUMMARY_SOURCE must be mock or db, got %q", c.SummarySource)
	}
	switch c.PortfolioSource {
	case "memory", "db":
	default:
		return fmt.Errorf("PORTFOLIO_SOURCE must be memory or db, got %q", c.PortfolioSource)
	}
	if c.NeedsDatabase() {
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when a db source is selected")
		}
		switch c.Database.Driver {
		case "postgres", "sqlite":
		default:
			return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
		}
	}
	return nil
}

// NeedsDatabase はいずれかのデータソースがDBを使う設定かを返します。
func (c *Config) NeedsDatabase() bool {
	return c.SummarySource == "db" || c.PortfolioSource == "db"
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// envReader は型付きの環境変数を読み、解釈できなかった値のエラーを溜めます。
type envReader struct {
	errs []error
}

func (e *envReader) intVal(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be an integer, got %q", key, val))
		return defaultVal
	}
	return i
}

func (e *envReader) boolVal(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s must be a boolean, got %q", key, val))
		return defaultVal
	}
	return b
}

// durationVal は "30s" 形式、または整数（ミリ秒）を受け付けます。
func (e *envReader) durationVal(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	e.errs = append(e.errs, fmt.Errorf("%s must be a duration such as 30s, got %q", key, val))
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
