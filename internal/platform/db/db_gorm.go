// Package db はGORMによるデータベース接続を提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	// DriverSQLite は端末ローカルのSQLiteファイルを使用します。
	DriverSQLite = "sqlite"
	// DriverPostgres はサーバー上のPostgreSQLを使用します。
	DriverPostgres = "postgres"

	defaultSQLitePath = "stocklinker.db"
	retryInterval     = 3 * time.Second
)

// Config はデータベース接続設定を保持します。
type Config struct {
	Driver     string
	SQLitePath string
	User       string
	Password   string
	Name       string
	Host       string
	Port       string
	SSLMode    string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
// STORE_BACKEND が postgres 以外の場合は SQLite を使用します。
func LoadConfigFromEnv() Config {
	driver := DriverSQLite
	if os.Getenv("STORE_BACKEND") == DriverPostgres {
		driver = DriverPostgres
	}
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = defaultSQLitePath
	}
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	return Config{
		Driver:     driver,
		SQLitePath: path,
		User:       os.Getenv("DB_USER"),
		Password:   os.Getenv("DB_PASSWORD"),
		Name:       os.Getenv("DB_NAME"),
		Host:       os.Getenv("DB_HOST"),
		Port:       os.Getenv("DB_PORT"),
		SSLMode:    sslMode,
	}
}

// BuildDSN は設定からDSN文字列を生成します。
// SQLiteの場合はファイルパスをそのまま返します。
func BuildDSN(cfg Config) string {
	if cfg.Driver != DriverPostgres {
		return cfg.SQLitePath
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Asia/Tokyo",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
}

// Opener はDSNからGORM接続を開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor はドライバに応じたOpenerを返します。
func OpenerFor(driver string) Opener {
	if driver == DriverPostgres {
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		}
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
}

// ConnectWithRetry はタイムアウトまで一定間隔で接続を再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定に従って接続し、渡されたモデルをマイグレーションします。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	timeout := 60 * time.Second
	if cfg.Driver == DriverSQLite {
		// ローカルファイルは待っても状況が変わらない
		timeout = 0
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, OpenerFor(cfg.Driver))
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errors.New("db opener returned nil")
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	slog.Info("DB connection successful", "driver", cfg.Driver)
	return db, nil
}
