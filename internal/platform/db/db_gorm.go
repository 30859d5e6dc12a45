// Package db はgormによるデータベース接続（SQLite / PostgreSQL）を提供します。
package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// retryInterval は接続失敗時の再試行間隔です。
var retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Driver        string `yaml:"driver"` // "sqlite" または "postgres"
	Host          string `yaml:"host"`
	Port          string `yaml:"port"`
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	Name          string `yaml:"name"`
	SSLMode       string `yaml:"sslmode"`
	SQLitePath    string `yaml:"sqlite_path"`
	RunMigrations bool   `yaml:"run_migrations"`
}

// BuildDSN は接続文字列を生成します。SQLite の場合はファイルパスです。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverPostgres {
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
	}
	return cfg.SQLitePath
}

// Opener はDSNからgorm接続を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor はドライバー名に対応する Opener を返します。
func OpenerFor(driver string) (Opener, error) {
	switch driver {
	case DriverPostgres:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		}, nil
	case DriverSQLite, "":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		}, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// ConnectWithRetry は timeout に達するまで retryInterval 間隔で接続を再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定に従って接続し、RunMigrations が有効なら models をマイグレーションします。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	open, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.Driver != DriverPostgres && cfg.SQLitePath != ":memory:" {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, open)
	if err != nil {
		return nil, err
	}
	if cfg.Driver != DriverPostgres {
		// SQLiteは書き込みが単一接続のため、接続を1本に固定する（:memory: も接続ごとに別DBになる）
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		slog.Info("using sqlite", "path", cfg.SQLitePath)
	}

	if cfg.RunMigrations && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}
