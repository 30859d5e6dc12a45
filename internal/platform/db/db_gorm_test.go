package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

type testModel struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

// TestBuildDSN_Postgres はPostgreSQL用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_Postgres(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Driver:   DriverPostgres,
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
	}

	dsn := BuildDSN(cfg)

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_PostgresSSLMode はsslmodeが指定された場合にそのまま使われることを検証します。
func TestBuildDSN_PostgresSSLMode(t *testing.T) {
	t.Parallel()

	cfg := Config{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "require"}

	expected := "host=db port=5432 user=u password=p dbname=n sslmode=require TimeZone=UTC"
	if dsn := BuildDSN(cfg); dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_SQLite はSQLiteの場合にファイルパスがそのままDSNになることを検証します。
func TestBuildDSN_SQLite(t *testing.T) {
	t.Parallel()

	if dsn := BuildDSN(Config{Driver: DriverSQLite, SQLitePath: "data/app.db"}); dsn != "data/app.db" {
		t.Errorf("expected sqlite path, got %q", dsn)
	}
}

// TestOpenerFor_Unsupported は未対応のドライバーでエラーになることを検証します。
func TestOpenerFor_Unsupported(t *testing.T) {
	t.Parallel()

	if _, err := OpenerFor("mysql"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// retryInterval を書き換えるため並列実行しない
	orig := retryInterval
	retryInterval = 10 * time.Millisecond
	t.Cleanup(func() { retryInterval = orig })

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	// 非常に短いタイムアウトなのですぐに失敗する
	_, err := ConnectWithRetry("test-dsn", 0, opener)

	if err == nil {
		t.Fatal("expected error after timeout, got nil")
	}
	if attemptCount == 0 {
		t.Error("expected at least one connection attempt")
	}
}

// TestOpenDB_SQLiteMemoryWithMigrations はインメモリSQLiteに接続しマイグレーションできることを検証します。
func TestOpenDB_SQLiteMemoryWithMigrations(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(Config{Driver: DriverSQLite, SQLitePath: ":memory:", RunMigrations: true}, &testModel{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.Migrator().HasTable(&testModel{}) {
		t.Error("expected table to be migrated")
	}
}
