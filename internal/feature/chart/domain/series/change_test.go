package series

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stock_dashboard/internal/feature/chart/domain/entity"
)

// TestComputeChange は騰落額と騰落率の計算を検証します。
func TestComputeChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		points   []entity.PricePoint
		expected Change
	}{
		{"empty", nil, Change{}},
		{"single point", []entity.PricePoint{{Price: 100}}, Change{}},
		{"rise", []entity.PricePoint{{Price: 100}, {Price: 110}}, Change{Change: 10, ChangePercent: 10}},
		{"fall", []entity.PricePoint{{Price: 200}, {Price: 150}, {Price: 150}}, Change{Change: -50, ChangePercent: -25}},
		{"zero first price", []entity.PricePoint{{Price: 0}, {Price: 5}}, Change{Change: 5, ChangePercent: 0}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ComputeChange(tt.points)
			assert.InDelta(t, tt.expected.Change, got.Change, 1e-9)
			assert.InDelta(t, tt.expected.ChangePercent, got.ChangePercent, 1e-9)
		})
	}
}

// TestExtremes は高値と安値の算出を検証します。
func TestExtremes(t *testing.T) {
	t.Parallel()

	high, low := Extremes(nil)
	assert.Zero(t, high)
	assert.Zero(t, low)

	high, low = Extremes([]entity.PricePoint{{Price: 3}, {Price: 9}, {Price: 1}, {Price: 4}})
	assert.Equal(t, 9.0, high)
	assert.Equal(t, 1.0, low)
}
