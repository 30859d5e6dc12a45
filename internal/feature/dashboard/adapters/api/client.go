package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/dashboard/usecase"
)

// maxBodyBytes はレスポンス本文として読み込む上限です。
const maxBodyBytes = 8 << 20

// ErrNotArray はチャートAPIが配列以外（エラーオブジェクト等）を返した場合のエラーです。
var ErrNotArray = errors.New("api: response is not a JSON array")

// Client は株価チャートAPIのHTTPクライアントです。
type Client struct {
	baseURL string
	http    *http.Client
}

var _ usecase.ChartAPI = (*Client)(nil)

// NewClient は新しい Client を生成します。
func NewClient(cfg Config, httpClient *http.Client) *Client {
	return &Client{baseURL: cfg.BaseURL, http: httpClient}
}

// FetchChart は GET /api/stock_chart/ を呼び出します。
// ステータスに関わらず、本文がJSON配列でなければ ErrNotArray を返します。
func (c *Client) FetchChart(ctx context.Context, symbol string, r entity.Range) ([]entity.PricePoint, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("range", string(r))

	body, status, err := c.get(ctx, "/api/stock_chart/", q)
	if err != nil {
		return nil, err
	}
	if !isArray(body) {
		return nil, fmt.Errorf("%w (status %d): %s", ErrNotArray, status, truncate(body, 200))
	}
	var points []entity.PricePoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return points, nil
}

// Search は GET /api/search/ を呼び出し、候補一覧を返します。
func (c *Client) Search(ctx context.Context, query string) ([]usecase.Suggestion, error) {
	q := url.Values{}
	q.Set("q", query)

	body, status, err := c.get(ctx, "/api/search/", q)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest || !isArray(body) {
		return nil, fmt.Errorf("search: unexpected response (status %d): %s", status, truncate(body, 200))
	}
	var out []usecase.Suggestion
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, int, error) {
	u := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, res.StatusCode, fmt.Errorf("read %s: %w", path, err)
	}
	return body, res.StatusCode, nil
}

func isArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
