package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_dashboard/internal/platform/http/handler"
)

// NewHealthChecks builds the /healthz dependency checks. A nil rdb means the
// cache is disabled and is not reported.
func NewHealthChecks(gdb *gorm.DB, rdb *redis.Client) []handler.Check {
	var checks []handler.Check
	if gdb != nil {
		checks = append(checks, handler.Check{Name: "db", Ping: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if rdb != nil {
		checks = append(checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return checks
}
