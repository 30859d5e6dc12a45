package pricewalk

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	chartentity "stock_dashboard/internal/feature/chart/domain/entity"
)

// SeedSpread は初期チャート生成時の1点あたりの変動幅です（±1）。
const SeedSpread = 2.0

const day = 24 * time.Hour

// seedPlan は期間ごとの初期チャートの区間数と間隔です。
type seedPlan struct {
	intervals int
	step      time.Duration
}

var seedPlans = map[chartentity.Range]seedPlan{
	chartentity.Range1D:  {intervals: 8, step: 3 * time.Hour},
	chartentity.Range5D:  {intervals: 5, step: day},
	chartentity.Range1M:  {intervals: 5, step: 6 * day},
	chartentity.Range6M:  {intervals: 12, step: 15 * day},
	chartentity.Range1Y:  {intervals: 4, step: 120 * day},
	chartentity.Range5Y:  {intervals: 5, step: 360 * day},
	chartentity.RangeMax: {intervals: 10, step: 360 * day},
}

// SeedSeries は base を起点に、期間 r の初期チャート（intervals+1 点）を合成します。
// 各点の Time には期間に応じた表示ラベルが入ります。未知の期間は1Dとして扱います。
func SeedSeries(base float64, r chartentity.Range, now time.Time, rnd Source) []chartentity.PricePoint {
	plan, ok := seedPlans[r]
	if !ok {
		r, plan = chartentity.Range1D, seedPlans[chartentity.Range1D]
	}

	out := make([]chartentity.PricePoint, 0, plan.intervals+1)
	price := base
	for i := plan.intervals; i >= 0; i-- {
		t := now.Add(-time.Duration(i) * plan.step)
		price = floor(price + delta(rnd, SeedSpread))
		vol := volume(rnd)
		out = append(out, chartentity.PricePoint{
			Time:   seedLabel(r, t, plan.intervals-i+1),
			Price:  round2(decimal.NewFromFloat(price)),
			Volume: &vol,
		})
	}
	return out
}

func seedLabel(r chartentity.Range, t time.Time, week int) string {
	switch r {
	case chartentity.Range1D:
		return t.Format("15:04")
	case chartentity.Range5D:
		return t.Format("02 Jan")
	case chartentity.Range1M:
		return fmt.Sprintf("Week %d", week)
	case chartentity.Range1Y:
		return t.Format("Jan 2006")
	default:
		return t.Format("2006")
	}
}
