package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"stock_dashboard/internal/feature/chart/adapters/yahoo/dto"
	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/usecase"
	"stock_dashboard/internal/shared/ratelimiter"
)

// query は Yahoo の range / interval パラメータの組です。
type query struct {
	period   string
	interval string
}

// rangeQueries はダッシュボードの期間を Yahoo の取得条件に対応付けます。
var rangeQueries = map[entity.Range]query{
	entity.Range1D:  {"1d", "15m"},
	entity.Range5D:  {"5d", "1h"},
	entity.Range1M:  {"1mo", "1d"},
	entity.Range6M:  {"6mo", "1wk"},
	entity.Range1Y:  {"1y", "1wk"},
	entity.Range5Y:  {"5y", "1mo"},
	entity.RangeMax: {"max", "1mo"},
}

// YahooMarket はYahoo Finance外部APIから株価データを取得するMarketRepository実装です。
type YahooMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

// YahooMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
// limiter が nil の場合はレート制限を行いません。
func NewYahooMarket(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client, limiter: limiter}
}

// GetPriceSeries はYahoo Finance APIから終値の時系列を取得し、昇順のPricePointとして返します。
func (y *YahooMarket) GetPriceSeries(ctx context.Context, symbol string, r entity.Range) ([]entity.PricePoint, error) {
	q, ok := rangeQueries[r]
	if !ok {
		return nil, fmt.Errorf("yahoo: unsupported range %q", r)
	}
	if y.limiter != nil {
		if err := y.limiter.WaitIfNeeded(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("range", q.period)
	params.Set("interval", q.interval)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// User-Agentが無いとYahooは429を返す
	req.Header.Set("User-Agent", "Mozilla/5.0")

	res, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	// 存在しない銘柄は404でエラー本文が返るため、先にデコードを試みる
	var body dto.ChartResponse
	decodeErr := json.NewDecoder(res.Body).Decode(&body)
	if decodeErr == nil && body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", body.Chart.Error.Description)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	if len(body.Chart.Result) == 0 {
		return []entity.PricePoint{}, nil
	}

	result := body.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []entity.PricePoint{}, nil
	}
	quote := result.Indicators.Quote[0]

	type sample struct {
		at    time.Time
		point entity.PricePoint
	}
	samples := make([]sample, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// 休場などで終値がnullの足はスキップ
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		at := time.Unix(ts, 0).UTC()
		p := entity.PricePoint{Time: at.Format(time.RFC3339), Price: *quote.Close[i]}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			v := *quote.Volume[i]
			p.Volume = &v
		}
		samples = append(samples, sample{at: at, point: p})
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].at.Before(samples[j].at) })

	points := make([]entity.PricePoint, 0, len(samples))
	for _, s := range samples {
		points = append(points, s.point)
	}
	return points, nil
}
