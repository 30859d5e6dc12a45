// Package handler はchartフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/render"
	"stock_dashboard/internal/feature/chart/transport/http/dto"
	"stock_dashboard/internal/feature/chart/usecase"
)

// ChartUsecase はチャート取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ChartUsecase interface {
	GetChart(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error)
	GetChartView(ctx context.Context, symbol, rangeParam string) (usecase.ChartView, error)
}

// ChartHandler は株価チャートのHTTPリクエストを処理します。
type ChartHandler struct {
	uc ChartUsecase
}

// NewChartHandler は指定されたusecaseでChartHandlerの新しいインスタンスを生成します。
func NewChartHandler(uc ChartUsecase) *ChartHandler {
	return &ChartHandler{uc: uc}
}

// GetStockChart は銘柄コードと期間を受け取り、価格系列をJSON配列で返します。
//
// エンドポイント例:
// GET /api/stock_chart/?symbol=RELIANCE&range=1D
func (h *ChartHandler) GetStockChart(c *gin.Context) {
	points, err := h.uc.GetChart(c.Request.Context(), c.Query("symbol"), c.DefaultQuery("range", "1D"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetChartView は期間ごとに間引いた系列と軸ラベル・騰落・高値・安値を返します。
//
// エンドポイント例:
// GET /api/chart_view/?symbol=TCS&range=1M
func (h *ChartHandler) GetChartView(c *gin.Context) {
	view, err := h.uc.GetChartView(c.Request.Context(), c.Query("symbol"), c.DefaultQuery("range", "1D"))
	if err != nil {
		writeError(c, err)
		return
	}

	points := view.Points
	if points == nil {
		points = []entity.PricePoint{}
	}
	labels := view.Labels
	if labels == nil {
		labels = []string{}
	}
	c.JSON(http.StatusOK, dto.ChartViewResponse{
		Symbol:        view.Symbol,
		Range:         string(view.Range),
		Points:        points,
		Labels:        labels,
		Change:        view.Change,
		ChangePercent: view.ChangePercent,
		High:          view.High,
		Low:           view.Low,
		Last:          view.Last,
	})
}

// GetChartImage はチャートをPNG画像で返します。描画できる点が無い場合は204を返します。
//
// エンドポイント例:
// GET /api/chart.png?symbol=INFY&range=6M&type=area
func (h *ChartHandler) GetChartImage(c *gin.Context) {
	view, err := h.uc.GetChartView(c.Request.Context(), c.Query("symbol"), c.DefaultQuery("range", "1D"))
	if err != nil {
		if errors.Is(err, usecase.ErrNoData) {
			c.Status(http.StatusNoContent)
			return
		}
		writeError(c, err)
		return
	}

	var buf bytes.Buffer
	opts := render.Options{Type: render.ParseChartType(c.Query("type")), Title: view.Symbol}
	if err := render.PNG(&buf, view.Points, view.Labels, opts); err != nil {
		if errors.Is(err, render.ErrNotEnoughPoints) {
			c.Status(http.StatusNoContent)
			return
		}
		slog.Error("failed to render chart", "symbol", view.Symbol, "range", view.Range, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to render chart"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// writeError はusecaseのエラーをHTTPステータスに対応付けて返します。
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrMissingSymbol), errors.Is(err, usecase.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrNoData):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: "request timed out"})
	default:
		slog.Error("failed to fetch stock data", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "failed to fetch stock data", Details: err.Error()})
	}
}
