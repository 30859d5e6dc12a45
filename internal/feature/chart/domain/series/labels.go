package series

import (
	"time"

	"stock_dashboard/internal/feature/chart/domain/entity"
)

// timeLayouts はPricePoint.Timeとして受け付ける書式です。
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LabelCursor は5Dチャートで直前にラベルを付けた日付を保持します。
// 1回のチャート描画ごとにゼロ値から始めます。
type LabelCursor struct {
	lastDate string
}

// Labeler は期間に応じたX軸ラベルを生成します。
// Location が nil の場合は UTC で日付を解釈します。
type Labeler struct {
	Range    entity.Range
	Location *time.Location
}

// NewLabeler は指定された期間とタイムゾーンの Labeler を返します。
func NewLabeler(r entity.Range, loc *time.Location) Labeler {
	return Labeler{Range: r, Location: loc}
}

// Label は index 番目の点のラベルと、次の点に渡すカーソルを返します。
// 表示を間引く位置では空文字を返します。
func (l Labeler) Label(cur LabelCursor, p entity.PricePoint, index int) (string, LabelCursor) {
	t, ok := l.parse(p.Time)
	if !ok {
		if l.Range == entity.Range1D {
			return truncateTimeOfDay(p.Time), cur
		}
		return "", cur
	}

	switch l.Range {
	case entity.Range1D:
		return t.Format("15:04"), cur
	case entity.Range5D:
		day := t.Format("2006-01-02")
		if day == cur.lastDate {
			return "", cur
		}
		return t.Format("02 Jan"), LabelCursor{lastDate: day}
	case entity.Range1M:
		if index%monthLabelStride == 0 {
			return t.Format("02 Jan"), cur
		}
		return "", cur
	case entity.Range6M:
		if index%weekLabelStride == 0 {
			return t.Format("Jan 06"), cur
		}
		return "", cur
	case entity.Range1Y:
		if (int(t.Month())-1)%4 == 0 {
			return t.Format("Jan 2006"), cur
		}
		return "", cur
	case entity.RangeMax:
		if t.Year()%4 == 0 {
			return t.Format("2006"), cur
		}
		return "", cur
	default:
		return t.Format("2006"), cur
	}
}

// Labels は新しいカーソルで plot の全点のラベルを左から順に生成します。
func (l Labeler) Labels(points []entity.PricePoint) []string {
	if len(points) == 0 {
		return nil
	}
	out := make([]string, len(points))
	var cur LabelCursor
	for i, p := range points {
		out[i], cur = l.Label(cur, p, i)
	}
	return out
}

// Labels は plot の期間に対応する Labeler でラベルを生成します。
func (p Plot) Labels(loc *time.Location) []string {
	return NewLabeler(p.Range, loc).Labels(p.Points)
}

func (l Labeler) parse(s string) (time.Time, bool) {
	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// truncateTimeOfDay は "2006-01-02 15:04..." 形式の文字列から時刻部分だけを切り出します。
func truncateTimeOfDay(s string) string {
	if len(s) > 10 {
		end := 16
		if end > len(s) {
			end = len(s)
		}
		return s[11:end]
	}
	return s
}
