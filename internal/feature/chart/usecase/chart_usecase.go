// Package usecase は株価チャートの取得と表示用データ生成のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/series"
)

// SymbolSuffix はNSE上場銘柄のティッカー接尾辞です。
const SymbolSuffix = ".NS"

// MarketRepository は外部の株価データソースを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	// GetPriceSeries は期間に対応する価格系列を時系列の昇順で返します。
	GetPriceSeries(ctx context.Context, symbol string, r entity.Range) ([]entity.PricePoint, error)
}

// ChartView は間引き・ラベル付け済みの描画用チャートです。
type ChartView struct {
	Symbol        string
	Range         entity.Range
	Points        []entity.PricePoint
	Labels        []string
	Change        float64
	ChangePercent float64
	High          float64
	Low           float64
	Last          float64
}

// ChartUsecase はチャート取得のユースケースです。
type ChartUsecase struct {
	market   MarketRepository
	location *time.Location
}

// NewChartUsecase は ChartUsecase を生成します。loc は軸ラベルの表示タイムゾーンで、nil の場合は UTC です。
func NewChartUsecase(market MarketRepository, loc *time.Location) *ChartUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &ChartUsecase{market: market, location: loc}
}

// NormalizeSymbol は銘柄コードを大文字にし、取引所の接尾辞が無ければ ".NS" を付与します。
func NormalizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return ""
	}
	if !strings.Contains(s, ".") {
		s += SymbolSuffix
	}
	return s
}

// GetChart は銘柄と期間を検証し、生の価格系列を返します。
func (u *ChartUsecase) GetChart(ctx context.Context, symbol, rangeParam string) ([]entity.PricePoint, error) {
	sym := NormalizeSymbol(symbol)
	if sym == "" {
		return nil, ErrMissingSymbol
	}
	if rangeParam == "" {
		rangeParam = string(entity.Range1D)
	}
	r, ok := entity.ParseRange(rangeParam, entity.ChartRanges)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, rangeParam)
	}

	points, err := u.market.GetPriceSeries(ctx, sym, r)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", sym, r, err)
	}
	if len(points) == 0 {
		return nil, ErrNoData
	}
	return points, nil
}

// GetChartView は GetChart の結果を期間の規則で間引き、ラベルと騰落・高値・安値を付与します。
func (u *ChartUsecase) GetChartView(ctx context.Context, symbol, rangeParam string) (ChartView, error) {
	points, err := u.GetChart(ctx, symbol, rangeParam)
	if err != nil {
		return ChartView{}, err
	}
	r, _ := entity.ParseRange(rangeParam, entity.ChartRanges)
	if r == "" {
		r = entity.Range1D
	}
	return BuildView(NormalizeSymbol(symbol), r, points, u.location), nil
}

// BuildView は生の系列から描画用の ChartView を組み立てます。
func BuildView(symbol string, r entity.Range, points []entity.PricePoint, loc *time.Location) ChartView {
	plot := series.Downsample(points, r)
	change := series.ComputeChange(plot.Points)
	high, low := series.Extremes(plot.Points)

	v := ChartView{
		Symbol:        symbol,
		Range:         r,
		Points:        plot.Points,
		Labels:        plot.Labels(loc),
		Change:        change.Change,
		ChangePercent: change.ChangePercent,
		High:          high,
		Low:           low,
	}
	if n := len(plot.Points); n > 0 {
		v.Last = plot.Points[n-1].Price
	}
	return v
}
