// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	catalogadapters "stocklinker/internal/feature/catalog/adapters"
	catalogusecase "stocklinker/internal/feature/catalog/usecase"
	"stocklinker/internal/platform/config"
	"stocklinker/internal/platform/db"
	"stocklinker/internal/platform/kvstore"
	platformredis "stocklinker/internal/platform/redis"
)

// preferenceCacheNamespace はDB保存の設定値をRedisにキャッシュする際の名前空間です。
const preferenceCacheNamespace = "prefs"

// Infra holds the external connections shared by the application.
// DB and Redis are nil when not configured.
type Infra struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// OpenInfra は設定に従ってDBとRedisに接続します。
// Redisは保存先として指定された場合のみ必須で、それ以外は接続に失敗してもキャッシュなしで動作します。
func OpenInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.UsesDB() {
		dbCfg := cfg.DB
		dbCfg.Driver = cfg.StoreBackend
		gdb, err := db.OpenDB(dbCfg, &kvstore.PreferenceModel{}, &catalogadapters.SecurityModel{})
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		infra.DB = gdb
	}

	if cfg.Redis.Enabled() {
		rdb, err := platformredis.NewRedisClient(ctx, cfg.Redis)
		switch {
		case err == nil:
			infra.Redis = rdb
		case cfg.StoreBackend == config.BackendRedis:
			infra.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		default:
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		}
	}
	return infra, nil
}

// Close は開いている接続を閉じます。
func (i *Infra) Close() {
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			slog.Error("Failed to close Redis client", "error", err)
		}
	}
	if i.DB != nil {
		if sqlDB, err := i.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("Failed to close database", "error", err)
			}
		}
	}
}

// NewPreferenceStore creates the key/value store that holds the registries.
// DB-backed stores are fronted by a Redis cache when Redis is available.
func NewPreferenceStore(cfg config.Config, infra *Infra) (kvstore.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		slog.Warn("Using in-memory store. Data is lost on restart.")
		return kvstore.NewMemoryStore(), nil
	case config.BackendRedis:
		if infra.Redis == nil {
			return nil, fmt.Errorf("redis store requested but redis is not connected")
		}
		return kvstore.NewRedisStore(infra.Redis, ""), nil
	case config.BackendSQLite, config.BackendPostgres:
		if infra.DB == nil {
			return nil, fmt.Errorf("%s store requested but database is not connected", cfg.StoreBackend)
		}
		var store kvstore.Store = kvstore.NewGormStore(infra.DB)
		if infra.Redis != nil {
			store = kvstore.NewCachingStore(infra.Redis, 0, store, preferenceCacheNamespace)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// NewMasterSource は設定に応じたマスターデータの読み込み元を返します。
func NewMasterSource(cfg config.Config, infra *Infra) (catalogusecase.MasterSource, error) {
	if cfg.MasterSource == config.MasterSourceDB {
		if infra.DB == nil {
			return nil, fmt.Errorf("db master source requested but database is not connected")
		}
		return catalogadapters.NewSecurityRepository(infra.DB), nil
	}
	return catalogadapters.NewJSONFileSource(cfg.MasterJSONPath), nil
}
