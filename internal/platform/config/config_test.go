package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv はテストに影響する環境変数を空にします。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_ADDR", "STORE_BACKEND", "MASTER_SOURCE", "MASTER_JSON_PATH", "LINKS_YAML_PATH",
		"API_TOKEN_SECRET", "PRICE_RATE_LIMIT", "NEWS_CACHE_TTL", "SEED_DEMO_DATA",
		"CORS_ALLOW_ORIGINS", "REDIS_HOST", "SQLITE_PATH", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

// TestFromEnv_Defaults は環境変数未設定時の既定値を検証します。
func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, MasterSourceJSON, cfg.MasterSource)
	assert.Equal(t, 30, cfg.PriceRateLimit)
	assert.Equal(t, 5*time.Minute, cfg.NewsCacheTTL)
	assert.False(t, cfg.SeedDemoData)
	assert.Empty(t, cfg.CORSAllowOrigins)
	assert.Equal(t, "stocklinker.db", cfg.DB.SQLitePath)
	assert.True(t, cfg.UsesDB())
}

// TestFromEnv_Overrides は環境変数による上書きを検証します。
func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("PRICE_RATE_LIMIT", "0")
	t.Setenv("NEWS_CACHE_TTL", "90s")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000, https://app.example.com ,")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, 0, cfg.PriceRateLimit)
	assert.Equal(t, 90*time.Second, cfg.NewsCacheTTL)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.UsesDB())
}

// TestFromEnv_Invalid は不正な設定値がエラーになることを検証します。
func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "mongo"}},
		{"redis without host", map[string]string{"STORE_BACKEND": "redis"}},
		{"unknown master source", map[string]string{"MASTER_SOURCE": "csv"}},
		{"db master without database", map[string]string{"STORE_BACKEND": "memory", "MASTER_SOURCE": "db"}},
		{"rate limit not a number", map[string]string{"PRICE_RATE_LIMIT": "many"}},
		{"ttl not a duration", map[string]string{"NEWS_CACHE_TTL": "5"}},
		{"seed not a boolean", map[string]string{"SEED_DEMO_DATA": "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

// TestLoad_DotEnv は .env ファイルの値が読み込まれ、既存の環境変数が優先されることを検証します。
func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":7000")
	// 空文字でも設定済みとみなされるため、.env から読ませるキーは未設定にする
	require.NoError(t, os.Unsetenv("LINKS_YAML_PATH"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:9999\nLINKS_YAML_PATH=/etc/stocklinker/links.yaml\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, "/etc/stocklinker/links.yaml", cfg.LinksYAMLPath)
}

// TestLoad_MissingFile は .env がなくても環境変数のみで起動できることを検証します。
func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
