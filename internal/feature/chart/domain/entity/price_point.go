// Package entity defines the domain models for the chart feature.
package entity

import "strings"

// PricePoint is a single sample of a price series.
type PricePoint struct {
	Time   string  `json:"time"`             // ISO-8601 timestamp or a preformatted label
	Price  float64 `json:"price"`            // Closing price at Time
	Volume *int64  `json:"volume,omitempty"` // Traded volume, when the source provides one
}

// Range is a coarse time window selected on the dashboard.
type Range string

const (
	Range1D  Range = "1D"
	Range5D  Range = "5D"
	Range1M  Range = "1M"
	Range6M  Range = "6M"
	Range1Y  Range = "1Y"
	Range5Y  Range = "5Y"
	RangeMax Range = "MAX"
)

// ChartRanges は株価チャート画面で選択できる期間です。
var ChartRanges = []Range{Range1D, Range5D, Range1M, Range6M, Range1Y, RangeMax}

// LiveRanges はライブティッカー画面で選択できる期間です（5Yを含む）。
var LiveRanges = []Range{Range1D, Range5D, Range1M, Range6M, Range1Y, Range5Y, RangeMax}

// ParseRange は大文字小文字を区別せずに期間文字列を解釈します。
// "Max" や "max" も RangeMax として扱います。allowed に含まれない値は false を返します。
func ParseRange(s string, allowed []Range) (Range, bool) {
	r := Range(strings.ToUpper(strings.TrimSpace(s)))
	for _, a := range allowed {
		if a == r {
			return r, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (r Range) String() string { return string(r) }
