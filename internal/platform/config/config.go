// Package config はアプリケーション全体の設定を環境変数と .env ファイルから読み込みます。
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

	"stocklinker/internal/platform/db"
	"stocklinker/internal/platform/logger"
	"stocklinker/internal/platform/redis"
)

// 保存先の種類です。
const (
	BackendMemory   = "memory"
	BackendSQLite   = db.DriverSQLite
	BackendPostgres = db.DriverPostgres
	BackendRedis    = "redis"
)

// マスターデータの読み込み元です。
const (
	MasterSourceJSON = "json"
	MasterSourceDB   = "db"
)

const (
	defaultHTTPAddr       = ":8080"
	defaultPriceRateLimit = 30
	defaultNewsCacheTTL   = 5 * time.Minute
)

// Config はアプリケーション設定です。
type Config struct {
	HTTPAddr     string
	StoreBackend string

	MasterSource   string
	MasterJSONPath string
	LinksYAMLPath  string

	// TokenSecret が空の場合、APIは認証なしで公開されます。
	TokenSecret string

	// PriceRateLimit は1分あたりの株価取得回数の上限です。0以下で無制限です。
	PriceRateLimit int
	NewsCacheTTL   time.Duration
	SeedDemoData   bool

	CORSAllowOrigins []string

	DB    db.Config
	Redis redis.Config
	Log   logger.Config
}

// Load は .env ファイルを読み込んでから環境変数で設定を構築します。
// ファイルが存在しない場合はシステムの環境変数のみを使用します。
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		slog.Info(".env not found; using system environment variables")
	}
	return FromEnv()
}

// FromEnv は環境変数のみから設定を構築し、値を検証します。
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPAddr:         getEnv("HTTP_ADDR", defaultHTTPAddr),
		StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		MasterSource:     strings.ToLower(getEnv("MASTER_SOURCE", MasterSourceJSON)),
		MasterJSONPath:   os.Getenv("MASTER_JSON_PATH"),
		LinksYAMLPath:    os.Getenv("LINKS_YAML_PATH"),
		TokenSecret:      os.Getenv("API_TOKEN_SECRET"),
		CORSAllowOrigins: splitList(os.Getenv("CORS_ALLOW_ORIGINS")),
		DB:               db.LoadConfigFromEnv(),
		Redis:            redis.LoadConfigFromEnv(),
		Log:              logger.LoadConfigFromEnv(),
	}

	var err error
	if cfg.PriceRateLimit, err = getInt("PRICE_RATE_LIMIT", defaultPriceRateLimit); err != nil {
		return Config{}, err
	}
	if cfg.NewsCacheTTL, err = getDuration("NEWS_CACHE_TTL", defaultNewsCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.SeedDemoData, err = getBool("SEED_DEMO_DATA", false); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate は設定値の組み合わせを検証します。
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	case BackendRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("STORE_BACKEND=redis requires REDIS_HOST")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.MasterSource {
	case MasterSourceJSON:
	case MasterSourceDB:
		if !c.UsesDB() {
			return fmt.Errorf("MASTER_SOURCE=db requires STORE_BACKEND sqlite or postgres")
		}
	default:
		return fmt.Errorf("unknown MASTER_SOURCE %q", c.MasterSource)
	}
	return nil
}

// UsesDB はSQLデータベースへの接続が必要かを返します。
func (c Config) UsesDB() bool {
	return c.StoreBackend == BackendSQLite || c.StoreBackend == BackendPostgres
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
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
