package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stock_dashboard/internal/feature/chart/adapters/twelvedata/dto"
	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/usecase"
	"stock_dashboard/internal/shared/ratelimiter"
)

// series は Twelve Data の interval / outputsize の組です。
type series struct {
	interval   string
	outputsize int
}

// rangeSeries はダッシュボードの期間を取得条件に対応付けます。
var rangeSeries = map[entity.Range]series{
	entity.Range1D:  {"15min", 26},
	entity.Range5D:  {"1h", 35},
	entity.Range1M:  {"1day", 23},
	entity.Range6M:  {"1week", 26},
	entity.Range1Y:  {"1week", 52},
	entity.Range5Y:  {"1month", 60},
	entity.RangeMax: {"1month", 5000},
}

// exchanges は Yahoo 形式の接尾辞と Twelve Data の取引所名の対応です。
var exchanges = map[string]string{
	"NS": "NSE",
	"BO": "BSE",
}

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client, limiter: limiter}
}

// splitSymbol は "RELIANCE.NS" を ("RELIANCE", "NSE") に分解します。
func splitSymbol(symbol string) (string, string) {
	code, suffix, ok := strings.Cut(symbol, ".")
	if !ok {
		return symbol, ""
	}
	if ex, known := exchanges[strings.ToUpper(suffix)]; known {
		return code, ex
	}
	return symbol, ""
}

// GetPriceSeries はTwelve Data APIから終値の時系列を取得し、昇順のPricePointとして返します。
func (t *TwelveDataMarket) GetPriceSeries(ctx context.Context, symbol string, r entity.Range) ([]entity.PricePoint, error) {
	s, ok := rangeSeries[r]
	if !ok {
		return nil, fmt.Errorf("twelvedata: unsupported range %q", r)
	}
	if t.limiter != nil {
		if err := t.limiter.WaitIfNeeded(ctx); err != nil {
			return nil, err
		}
	}

	code, exchange := splitSymbol(symbol)
	q := url.Values{}
	q.Set("symbol", code)
	if exchange != "" {
		q.Set("exchange", exchange)
	}
	q.Set("interval", s.interval)
	q.Set("outputsize", strconv.Itoa(s.outputsize))
	q.Set("timezone", "UTC")
	q.Set("apikey", t.cfg.APIKey)

	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	// 新しい順で返るため、末尾から詰めて昇順にする
	points := make([]entity.PricePoint, 0, len(body.Values))
	for i := len(body.Values) - 1; i >= 0; i-- {
		v := body.Values[i]
		tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			tm, err = time.Parse("2006-01-02", v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse time %q: %w", v.Datetime, err)
			}
		}
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		p := entity.PricePoint{Time: tm.UTC().Format(time.RFC3339), Price: c}
		// 指数などは出来高を返さない
		if v.Volume != "" {
			vol, err := strconv.ParseInt(v.Volume, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse volume %q: %w", v.Volume, err)
			}
			p.Volume = &vol
		}
		points = append(points, p)
	}
	return points, nil
}
