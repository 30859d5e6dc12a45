package handler_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/transport/handler"
	"stock_dashboard/internal/feature/chart/usecase"
)

// mockChartUsecase はChartUsecaseインターフェースのモック実装です。
type mockChartUsecase struct {
	GetChartFunc     func(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error)
	GetChartViewFunc func(ctx context.Context, symbol, rangeParam string) (usecase.ChartView, error)
}

func (m *mockChartUsecase) GetChart(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error) {
	return m.GetChartFunc(ctx, symbol, rangeParam)
}

func (m *mockChartUsecase) GetChartView(ctx context.Context, symbol, rangeParam string) (usecase.ChartView, error) {
	return m.GetChartViewFunc(ctx, symbol, rangeParam)
}

func newRouter(h *handler.ChartHandler) *gin.Engine {
	r := gin.New()
	r.GET("/api/stock_chart/", h.GetStockChart)
	r.GET("/api/chart_view/", h.GetChartView)
	r.GET("/api/chart.png", h.GetChartImage)
	return r
}

// TestChartHandler_GetStockChart はGetStockChartのHTTPリクエスト/レスポンス処理をテストします。
func TestChartHandler_GetStockChart(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		mockGetChart   func(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: returns a JSON array",
			url:  "/api/stock_chart/?symbol=RELIANCE&range=1D",
			mockGetChart: func(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error) {
				assert.Equal(t, "RELIANCE", symbol)
				assert.Equal(t, "1D", rangeParam)
				return []entity.PricePoint{{Time: "2025-07-22T03:45:00Z", Price: 2934.85}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"time":"2025-07-22T03:45:00Z","price":2934.85}]`,
		},
		{
			name: "success: range defaults to 1D",
			url:  "/api/stock_chart/?symbol=TCS",
			mockGetChart: func(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error) {
				assert.Equal(t, "1D", rangeParam)
				return []entity.PricePoint{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "failure: missing symbol",
			url:  "/api/stock_chart/?range=1D",
			mockGetChart: func(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error) {
				return nil, usecase.ErrMissingSymbol
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"missing symbol parameter"}`,
		},
		{
			name: "failure: invalid range",
			url:  "/api/stock_chart/?symbol=TCS&range=2W",
			mockGetChart: func(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error) {
				return nil, fmt.Errorf("%w: %q", usecase.ErrInvalidRange, rangeParam)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid range parameter: \"2W\""}`,
		},
		{
			name: "failure: no data",
			url:  "/api/stock_chart/?symbol=NOPE&range=1D",
			mockGetChart: func(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error) {
				return nil, usecase.ErrNoData
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"invalid symbol or no data available"}`,
		},
		{
			name: "failure: upstream error",
			url:  "/api/stock_chart/?symbol=TCS&range=1D",
			mockGetChart: func(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error) {
				return nil, errors.New("yahoo http 500")
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"error":"failed to fetch stock data","details":"yahoo http 500"}`,
		},
		{
			name: "failure: request deadline exceeded",
			url:  "/api/stock_chart/?symbol=TCS&range=1D",
			mockGetChart: func(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error) {
				return nil, fmt.Errorf("fetch TCS.NS 1D: %w", context.DeadlineExceeded)
			},
			expectedStatus: http.StatusGatewayTimeout,
			expectedBody:   `{"error":"request timed out"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewChartHandler(&mockChartUsecase{GetChartFunc: tt.mockGetChart})
			router := newRouter(h)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestChartHandler_GetChartView は描画用チャートのDTO変換を検証します。
func TestChartHandler_GetChartView(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := handler.NewChartHandler(&mockChartUsecase{
		GetChartViewFunc: func(ctx context.Context, symbol, rangeParam string) (usecase.ChartView, error) {
			assert.Equal(t, "1M", rangeParam)
			return usecase.ChartView{
				Symbol:        "TCS.NS",
				Range:         entity.Range1M,
				Points:        []entity.PricePoint{{Time: "2024-01-25T00:00:00Z", Price: 110}, {Time: "2024-01-19T00:00:00Z", Price: 100}},
				Labels:        []string{"25 Jan", ""},
				Change:        -10,
				ChangePercent: -9.090909090909092,
				High:          110,
				Low:           100,
				Last:          100,
			}, nil
		},
	})
	router := newRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/chart_view/?symbol=TCS&range=1M", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"symbol":"TCS.NS","range":"1M",
		"points":[{"time":"2024-01-25T00:00:00Z","price":110},{"time":"2024-01-19T00:00:00Z","price":100}],
		"labels":["25 Jan",""],
		"change":-10,"changePercent":-9.090909090909092,
		"high":110,"low":100,"last":100
	}`, w.Body.String())
}

// TestChartHandler_GetChartView_EmptyArrays は空の系列でもnullではなく空配列を返すことを検証します。
func TestChartHandler_GetChartView_EmptyArrays(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := handler.NewChartHandler(&mockChartUsecase{
		GetChartViewFunc: func(ctx context.Context, symbol, rangeParam string) (usecase.ChartView, error) {
			return usecase.ChartView{Symbol: "TCS.NS", Range: entity.Range1D}, nil
		},
	})
	router := newRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/chart_view/?symbol=TCS", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"points":[]`)
	assert.Contains(t, w.Body.String(), `"labels":[]`)
}

// TestChartHandler_GetChartImage はPNG出力と描画できない場合の204を検証します。
func TestChartHandler_GetChartImage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		view           usecase.ChartView
		err            error
		expectedStatus int
		expectPNG      bool
	}{
		{
			name: "success: renders png",
			view: usecase.ChartView{
				Symbol: "INFY.NS",
				Range:  entity.Range1D,
				Points: []entity.PricePoint{{Time: "2025-07-22T03:45:00Z", Price: 1598.45}, {Time: "2025-07-22T04:00:00Z", Price: 1601.20}},
				Labels: []string{"03:45", "04:00"},
			},
			expectedStatus: http.StatusOK,
			expectPNG:      true,
		},
		{
			name:           "single point: no content",
			view:           usecase.ChartView{Symbol: "INFY.NS", Points: []entity.PricePoint{{Price: 1}}},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "no data: no content",
			err:            usecase.ErrNoData,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "invalid range: bad request",
			err:            usecase.ErrInvalidRange,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewChartHandler(&mockChartUsecase{
				GetChartViewFunc: func(ctx context.Context, symbol, rangeParam string) (usecase.ChartView, error) {
					return tt.view, tt.err
				},
			})
			router := newRouter(h)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/api/chart.png?symbol=INFY&type=area", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectPNG {
				assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
				assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
			}
		})
	}
}
