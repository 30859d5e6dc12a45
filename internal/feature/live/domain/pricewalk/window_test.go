package pricewalk

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chartentity "stock_dashboard/internal/feature/chart/domain/entity"
)

func pts(n int) []chartentity.PricePoint {
	out := make([]chartentity.PricePoint, n)
	for i := range out {
		out[i] = chartentity.PricePoint{Time: fmt.Sprint(i), Price: float64(i)}
	}
	return out
}

func TestWindow_Append(t *testing.T) {
	t.Parallel()

	w := NewWindow(3, nil)
	_, ok := w.Last()
	assert.False(t, ok)

	for _, p := range pts(5) {
		w.Append(p)
	}

	assert.Equal(t, 3, w.Len())
	assert.Equal(t, []chartentity.PricePoint{{Time: "2", Price: 2}, {Time: "3", Price: 3}, {Time: "4", Price: 4}}, w.Points())
	last, ok := w.Last()
	require.True(t, ok)
	assert.Equal(t, float64(4), last.Price)
}

func TestWindow_SeedLongerThanCapacity(t *testing.T) {
	t.Parallel()

	w := NewWindow(0, pts(25))

	assert.Equal(t, WindowSize, w.Cap())
	assert.Equal(t, WindowSize, w.Len())
	assert.Equal(t, "5", w.Points()[0].Time)
}

func TestWindow_Reset(t *testing.T) {
	t.Parallel()

	w := NewWindow(4, pts(4))
	w.Append(chartentity.PricePoint{Time: "x"})
	w.Reset(pts(2))

	assert.Equal(t, pts(2), w.Points())
}

func TestWindow_NeverExceedsCapUnderTicks(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(7))
	now := time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC)
	w := NewWindow(WindowSize, SeedSeries(0.5, chartentity.Range6M, now, rnd))

	for i := 0; i < 500; i++ {
		last, ok := w.Last()
		require.True(t, ok)
		w.Append(NextPoint(last, rnd, now.Add(time.Duration(i)*2*time.Second)))
		require.LessOrEqual(t, w.Len(), WindowSize)
		last, _ = w.Last()
		require.GreaterOrEqual(t, last.Price, MinPrice)
	}
	assert.Equal(t, WindowSize, w.Len())
}
