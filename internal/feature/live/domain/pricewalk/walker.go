// Package pricewalk はライブ画面用の疑似的な価格変動（ランダムウォーク）を生成します。
package pricewalk

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	chartentity "stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/live/domain/entity"
)

const (
	// TickSpread は1ティックあたりの変動幅です（±TickSpread/2 の一様分布）。
	TickSpread = 0.5
	// MinPrice は価格の下限です。
	MinPrice = 0.01
	// maxVolume は合成する出来高の上限（未満）です。
	maxVolume = 1_000_000
)

// Source は乱数源です。*math/rand.Rand が満たします。
type Source interface {
	Float64() float64
}

// delta は [-spread/2, spread/2) の一様乱数を返します。
func delta(rnd Source, spread float64) float64 {
	return (rnd.Float64() - 0.5) * spread
}

// floor は価格を MinPrice 以上に切り上げます。
func floor(price float64) float64 {
	return math.Max(price, MinPrice)
}

// round2 は小数点以下2桁に丸めます。
func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// TickQuote は1銘柄の価格を1ティック分動かし、前日終値に対する騰落を再計算します。
func TickQuote(q entity.Quote, rnd Source) entity.Quote {
	prevClose := decimal.NewFromFloat(q.Price).Sub(decimal.NewFromFloat(q.Change))
	newPrice := decimal.NewFromFloat(floor(q.Price + delta(rnd, TickSpread)))
	change := newPrice.Sub(prevClose)

	pct := decimal.Zero
	if !prevClose.IsZero() {
		pct = change.Div(prevClose).Mul(decimal.NewFromInt(100))
	}

	q.Price = floor(round2(newPrice))
	q.Change = round2(change)
	q.ChangePercent = round2(pct)
	return q
}

// TickAll は全銘柄に TickQuote を適用した新しいスライスを返します。入力は変更しません。
func TickAll(quotes []entity.Quote, rnd Source) []entity.Quote {
	out := make([]entity.Quote, len(quotes))
	for i, q := range quotes {
		out[i] = TickQuote(q, rnd)
	}
	return out
}

// NextPoint は直前の点から1ティック進めたチャートの点を返します。
// 時刻ラベルは now の時:分です。
func NextPoint(last chartentity.PricePoint, rnd Source, now time.Time) chartentity.PricePoint {
	price := floor(round2(decimal.NewFromFloat(last.Price + delta(rnd, TickSpread))))
	vol := volume(rnd)
	return chartentity.PricePoint{
		Time:   now.Format("15:04"),
		Price:  price,
		Volume: &vol,
	}
}

func volume(rnd Source) int64 {
	return int64(math.Floor(rnd.Float64() * maxVolume))
}
