// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/usecase"
)

const (
	defaultTTL  = 5 * time.Minute
	intradayTTL = time.Minute
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository.
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	ttl       func() time.Duration
	namespace string
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// ttl is evaluated on every write so that entries expire at the next session open;
// if it is nil, entries live for 5 minutes. If namespace is empty, it uses "chart".
// Intraday (1D) entries never live longer than one minute.
func NewCachingMarketRepository(rdb *redis.Client, ttl func() time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if ttl == nil {
		ttl = func() time.Duration { return defaultTTL }
	}
	if namespace == "" {
		namespace = "chart"
	}
	return &CachingMarketRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// GetPriceSeries retrieves a series, checking cache first then falling back to the upstream API.
func (c *CachingMarketRepository) GetPriceSeries(ctx context.Context, symbol string, r entity.Range) ([]entity.PricePoint, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.GetPriceSeries(ctx, symbol, r)
	}

	key := c.cacheKey(symbol, r)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PricePoint
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to upstream
	out, err := c.inner.GetPriceSeries(ctx, symbol, r)
	if err != nil {
		return nil, err
	}
	// 空の結果はキャッシュしない（上場直後や一時的な欠損の可能性がある）
	if len(out) == 0 {
		return out, nil
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttlFor(r)).Err()
	}

	return out, nil
}

// ttlFor returns the expiry for a range.
func (c *CachingMarketRepository) ttlFor(r entity.Range) time.Duration {
	ttl := c.ttl()
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if r == entity.Range1D && ttl > intradayTTL {
		return intradayTTL
	}
	return ttl
}

// cacheKey generates a cache key for a specific query.
func (c *CachingMarketRepository) cacheKey(symbol string, r entity.Range) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, safe(symbol), safe(string(r)))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
