package series

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/chart/domain/entity"
)

// makePoints は価格が 1..n で単調増加する日足の系列を生成します。
func makePoints(n int) []entity.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]entity.PricePoint, n)
	for i := 0; i < n; i++ {
		out[i] = entity.PricePoint{
			Time:  base.AddDate(0, 0, i).Format(time.RFC3339),
			Price: float64(i + 1),
		}
	}
	return out
}

func prices(points []entity.PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}

// TestDownsample は期間ごとの間引き規則を検証します。
func TestDownsample(t *testing.T) {
	t.Parallel()

	raw := makePoints(30)

	tests := []struct {
		name     string
		rng      entity.Range
		expected []float64
	}{
		{"1D takes first 8 reversed", entity.Range1D, []float64{8, 7, 6, 5, 4, 3, 2, 1}},
		{"5D takes first 5 reversed", entity.Range5D, []float64{5, 4, 3, 2, 1}},
		{"1M keeps every 6th reversed", entity.Range1M, []float64{25, 19, 13, 7, 1}},
		{"6M reverses then takes 26", entity.Range6M, []float64{30, 29, 28, 27, 26, 25, 24, 23, 22, 21, 20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5}},
		{"1Y reverses then takes 12", entity.Range1Y, []float64{30, 29, 28, 27, 26, 25, 24, 23, 22, 21, 20, 19}},
		{"MAX keeps everything", entity.RangeMax, prices(raw)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plot := Downsample(raw, tt.rng)
			assert.Equal(t, tt.rng, plot.Range)
			assert.Equal(t, tt.expected, prices(plot.Points))
		})
	}
}

// TestDownsample_Empty は空の系列に対してすべての期間で空の結果を返すことを検証します。
func TestDownsample_Empty(t *testing.T) {
	t.Parallel()

	for _, r := range entity.LiveRanges {
		plot := Downsample(nil, r)
		assert.True(t, plot.Empty(), "range %s", r)
		assert.Nil(t, plot.Labels(nil), "range %s", r)
	}
}

// TestDownsample_ShortInput は件数が不足していてもパニックせず、取得できた分を返すことを検証します。
func TestDownsample_ShortInput(t *testing.T) {
	t.Parallel()

	raw := makePoints(3)

	assert.Equal(t, []float64{3, 2, 1}, prices(Downsample(raw, entity.Range1D).Points))
	assert.Equal(t, []float64{3, 2, 1}, prices(Downsample(raw, entity.Range5D).Points))
	assert.Equal(t, []float64{1}, prices(Downsample(raw, entity.Range1M).Points))
	assert.Equal(t, []float64{3, 2, 1}, prices(Downsample(raw, entity.Range6M).Points))
	assert.Equal(t, []float64{3, 2, 1}, prices(Downsample(raw, entity.Range1Y).Points))
}

// TestDownsample_DoesNotMutateInput は入力スライスの並びが変わらないことを検証します。
func TestDownsample_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	raw := makePoints(30)
	before := prices(raw)

	for _, r := range entity.ChartRanges {
		_ = Downsample(raw, r)
	}
	assert.Equal(t, before, prices(raw))
}

// TestDownsample_1DAtMostEight は任意長の入力で1Dが8件以下になることを検証します。
func TestDownsample_1DAtMostEight(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 40; n++ {
		raw := makePoints(n)
		plot := Downsample(raw, entity.Range1D)
		require.LessOrEqual(t, len(plot.Points), 8, fmt.Sprintf("n=%d", n))

		k := len(plot.Points)
		for i, p := range plot.Points {
			assert.Equal(t, raw[k-1-i], p)
		}
	}
}

// TestDownsample_Idempotent は同じ入力で同じ期間を繰り返し選択しても結果が変わらないことを検証します。
func TestDownsample_Idempotent(t *testing.T) {
	t.Parallel()

	raw := makePoints(30)

	first := Downsample(raw, entity.Range5D)
	second := Downsample(raw, entity.Range5D)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Labels(nil), second.Labels(nil))
}

// TestDownsample_OneMonthScenario は30件の系列から1Mで5件が選ばれ、ラベルが6件ごとに付くことを検証します。
func TestDownsample_OneMonthScenario(t *testing.T) {
	t.Parallel()

	raw := makePoints(30)
	plot := Downsample(raw, entity.Range1M)

	require.Len(t, plot.Points, 5)
	assert.Equal(t, []entity.PricePoint{raw[24], raw[18], raw[12], raw[6], raw[0]}, plot.Points)

	labels := plot.Labels(time.UTC)
	require.Len(t, labels, 5)
	assert.Equal(t, "25 Jan", labels[0])
	for i := 1; i < len(labels); i++ {
		assert.Empty(t, labels[i], "index %d", i)
	}
}
