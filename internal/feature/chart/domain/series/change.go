package series

import "stock_dashboard/internal/feature/chart/domain/entity"

// Change は系列の先頭から末尾までの騰落です。
type Change struct {
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// ComputeChange は last.Price - first.Price と先頭比の騰落率を返します。
// 2件未満、または先頭価格が0の場合は騰落率を0とします。
func ComputeChange(points []entity.PricePoint) Change {
	if len(points) < 2 {
		return Change{}
	}
	first := points[0].Price
	last := points[len(points)-1].Price
	c := Change{Change: last - first}
	if first != 0 {
		c.ChangePercent = c.Change / first * 100
	}
	return c
}

// Extremes は系列の高値と安値を返します。空の系列では (0, 0) です。
func Extremes(points []entity.PricePoint) (high, low float64) {
	if len(points) == 0 {
		return 0, 0
	}
	high, low = points[0].Price, points[0].Price
	for _, p := range points[1:] {
		if p.Price > high {
			high = p.Price
		}
		if p.Price < low {
			low = p.Price
		}
	}
	return high, low
}
