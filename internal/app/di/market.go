// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/chart/adapters/twelvedata"
	"stock_dashboard/internal/feature/chart/adapters/yahoo"
	"stock_dashboard/internal/feature/chart/usecase"
	"stock_dashboard/internal/platform/cache"
	infrahttp "stock_dashboard/internal/platform/http"
	"stock_dashboard/internal/shared/ratelimiter"
)

// ProviderTwelveData selects the Twelve Data adapter via MARKET_PROVIDER.
const ProviderTwelveData = "twelvedata"

// NewMarket creates the rate-limited MarketRepository chosen by MARKET_PROVIDER
// (Yahoo Finance by default). When rdb is non-nil the repository is wrapped by the Redis chart cache.
func NewMarket(rdb *redis.Client) usecase.MarketRepository {
	market := newUpstream()
	if rdb == nil {
		return market
	}
	return cache.NewCachingMarketRepository(rdb, cache.TimeUntilNextMarketOpen, market, "chart")
}

func newUpstream() usecase.MarketRepository {
	if strings.EqualFold(os.Getenv("MARKET_PROVIDER"), ProviderTwelveData) {
		cfg := twelvedata.LoadConfig()
		if cfg.Enabled() {
			limiter := ratelimiter.NewRateLimiter(cfg.RequestsPerMin, time.Minute)
			return twelvedata.NewTwelveDataMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout), limiter)
		}
		slog.Warn("TWELVE_DATA_API_KEY is not set; falling back to yahoo")
	}
	cfg := yahoo.LoadConfig()
	limiter := ratelimiter.NewRateLimiter(cfg.RequestsPerMin, time.Minute)
	return yahoo.NewYahooMarket(cfg, infrahttp.NewHTTPClient(cfg.Timeout), limiter)
}
