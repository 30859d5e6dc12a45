// Package render は描画用の価格系列をPNGの折れ線・エリアチャートとして出力します。
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/domain/series"
)

// ErrNotEnoughPoints は線を引くのに必要な点数が無い場合のエラーです。
var ErrNotEnoughPoints = errors.New("at least two points are required to draw a chart")

// ChartType は描画形式です。
type ChartType string

const (
	Line ChartType = "line"
	Area ChartType = "area"
)

// ParseChartType は "area" 以外をすべて Line として扱います。
func ParseChartType(s string) ChartType {
	if strings.EqualFold(strings.TrimSpace(s), string(Area)) {
		return Area
	}
	return Line
}

// Options は描画サイズと形式を指定します。
type Options struct {
	Width  int
	Height int
	Type   ChartType
	Title  string
}

var (
	strokeColor = drawing.ColorFromHex("3b82f6")
	gridColor   = drawing.ColorFromHex("eeeeee")
)

// PNG は points を labels の軸ラベル付きで描画し、w に書き出します。
// labels の空文字の位置には目盛りラベルを表示しません。
func PNG(w io.Writer, points []entity.PricePoint, labels []string, opts Options) error {
	if len(points) < 2 {
		return ErrNotEnoughPoints
	}
	if opts.Width <= 0 {
		opts.Width = 960
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Price
	}

	style := chart.Style{
		StrokeColor: strokeColor,
		StrokeWidth: 2,
	}
	if opts.Type == Area {
		style.FillColor = strokeColor.WithAlpha(48)
	}

	yAxis := chart.YAxis{
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("₹%.0f", f)
			}
			return ""
		},
		GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1},
	}
	// 値幅が0だと描画できないため上下に余白を取る
	if high, low := series.Extremes(points); high == low {
		yAxis.Range = &chart.ContinuousRange{Min: low - 1, Max: high + 1}
	}

	ch := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{Ticks: ticks(len(points), labels)},
		YAxis: yAxis,
		Series: []chart.Series{
			chart.ContinuousSeries{Name: opts.Title, XValues: xs, YValues: ys, Style: style},
		},
	}

	return ch.Render(chart.PNG, w)
}

// ticks は空でないラベルから目盛りを作ります。両端は常に目盛りを置き、
// 自動生成される数値ラベルが表示されないようにします。
func ticks(n int, labels []string) []chart.Tick {
	out := make([]chart.Tick, 0, n)
	for i := 0; i < n; i++ {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		if label == "" && i != 0 && i != n-1 {
			continue
		}
		out = append(out, chart.Tick{Value: float64(i), Label: label})
	}
	return out
}
