// Package series は描画前の価格系列に対する間引き・軸ラベル・騰落計算を提供します。
// すべて純粋関数で、入力スライスを書き換えません。
package series

import "stock_dashboard/internal/feature/chart/domain/entity"

const (
	intradayPoints   = 8  // 1D: 3時間刻みで直近24時間
	fiveDayPoints    = 5  // 5D
	monthStride      = 6  // 1M: 6件ごとに1件
	sixMonthPoints   = 26 // 6M: 週足26本
	oneYearPoints    = 12 // 1Y
	monthLabelStride = 6
	weekLabelStride  = 10
)

// Plot は間引き後に描画される系列です。
type Plot struct {
	Range  entity.Range
	Points []entity.PricePoint
}

// Empty は描画対象が無い場合に true を返します。
func (p Plot) Empty() bool { return len(p.Points) == 0 }

// Downsample は期間ごとの規則に従って描画対象の点列を決定します。
//
//   - 1D: 先頭8件を取り出して反転
//   - 5D: 先頭5件を取り出して反転
//   - 1M: インデックス 0,6,12,... を取り出して反転
//   - 6M: 全体を反転して先頭26件
//   - 1Y: 全体を反転して先頭12件
//   - MAX ほか: そのまま
//
// 件数が足りない場合は取得できた分だけを返し、空入力には空の Plot を返します。
func Downsample(points []entity.PricePoint, r entity.Range) Plot {
	out := Plot{Range: r}
	if len(points) == 0 {
		return out
	}

	switch r {
	case entity.Range1D:
		out.Points = reversed(head(points, intradayPoints))
	case entity.Range5D:
		out.Points = reversed(head(points, fiveDayPoints))
	case entity.Range1M:
		out.Points = reversed(every(points, monthStride))
	case entity.Range6M:
		out.Points = head(reversed(points), sixMonthPoints)
	case entity.Range1Y:
		out.Points = head(reversed(points), oneYearPoints)
	default:
		out.Points = head(points, len(points))
	}
	return out
}

// head は先頭 n 件のコピーを返します。
func head(points []entity.PricePoint, n int) []entity.PricePoint {
	if n > len(points) {
		n = len(points)
	}
	out := make([]entity.PricePoint, n)
	copy(out, points[:n])
	return out
}

func reversed(points []entity.PricePoint) []entity.PricePoint {
	out := make([]entity.PricePoint, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

func every(points []entity.PricePoint, stride int) []entity.PricePoint {
	out := make([]entity.PricePoint, 0, len(points)/stride+1)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	return out
}
