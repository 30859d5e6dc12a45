// Package config はアプリケーション設定をYAMLファイルと環境変数から読み込みます。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"stock_dashboard/internal/platform/db"
)

// Config はサーバー全体の設定です。
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Database db.Config    `yaml:"database"`
	Redis    RedisConfig  `yaml:"redis"`
	Live     LiveConfig   `yaml:"live"`
}

// ServerConfig はHTTPサーバーの設定です。
type ServerConfig struct {
	Port           string        `yaml:"port"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	Timezone       string        `yaml:"timezone"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// RedisConfig はRedis接続の設定です。Host が空の場合はキャッシュを使いません。
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled はRedisの接続先が設定されているかを返します。
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// Addr は "host:port" 形式のアドレスです。
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

// LiveConfig はライブティッカーの設定です。
type LiveConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

// Load はYAMLファイルを読み込み、環境変数で上書きしてから既定値を補います。
// ファイルが存在しない場合は環境変数と既定値だけで構成します。
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Timezone, "APP_TIMEZONE")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if err := setDuration(&cfg.Server.RequestTimeout, "REQUEST_TIMEOUT"); err != nil {
		return err
	}

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RUN_MIGRATIONS: %w", err)
		}
		cfg.Database.RunMigrations = b
	}

	setString(&cfg.Redis.Host, "REDIS_HOST")
	setString(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}

	return setDuration(&cfg.Live.TickInterval, "LIVE_TICK_INTERVAL")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "Asia/Kolkata"
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = db.DriverSQLite
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stock_dashboard.db"
	}
	if cfg.Database.Port == "" && cfg.Database.Driver == db.DriverPostgres {
		cfg.Database.Port = "5432"
	}
	if cfg.Redis.Port == "" {
		cfg.Redis.Port = "6379"
	}
	if cfg.Live.TickInterval == 0 {
		cfg.Live.TickInterval = 2 * time.Second
	}
}

// Validate は必須項目が設定されているかを検証します。
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case db.DriverSQLite:
	case db.DriverPostgres:
		if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
			return fmt.Errorf("database.host, database.name and database.user are required for postgres")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", db.DriverSQLite, db.DriverPostgres, c.Database.Driver)
	}
	if c.Live.TickInterval < time.Second {
		return fmt.Errorf("live.tick_interval must be at least 1s")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location は表示用タイムゾーンを返します。
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("server.timezone: %w", err)
	}
	return loc, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
