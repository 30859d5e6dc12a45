package pricewalk

import chartentity "stock_dashboard/internal/feature/chart/domain/entity"

// WindowSize はライブチャートが保持する最大点数です。
const WindowSize = 20

// Window は直近 size 点だけを保持するリングバッファです。
// 容量を超えて追加すると最も古い点が捨てられます。
type Window struct {
	buf   []chartentity.PricePoint
	start int
	n     int
}

// NewWindow は容量 size の Window を作り、seed の末尾から最大 size 点を格納します。
// size が1未満の場合は WindowSize を使います。
func NewWindow(size int, seed []chartentity.PricePoint) *Window {
	if size < 1 {
		size = WindowSize
	}
	w := &Window{buf: make([]chartentity.PricePoint, size)}
	w.Reset(seed)
	return w
}

// Reset は中身を seed で置き換えます。
func (w *Window) Reset(seed []chartentity.PricePoint) {
	w.start, w.n = 0, 0
	if over := len(seed) - len(w.buf); over > 0 {
		seed = seed[over:]
	}
	for _, p := range seed {
		w.Append(p)
	}
}

// Append は点を末尾に追加します。
func (w *Window) Append(p chartentity.PricePoint) {
	size := len(w.buf)
	if w.n < size {
		w.buf[(w.start+w.n)%size] = p
		w.n++
		return
	}
	w.buf[w.start] = p
	w.start = (w.start + 1) % size
}

// Len は保持している点数です。
func (w *Window) Len() int { return w.n }

// Cap は保持できる最大点数です。
func (w *Window) Cap() int { return len(w.buf) }

// Last は最新の点を返します。空の場合は false です。
func (w *Window) Last() (chartentity.PricePoint, bool) {
	if w.n == 0 {
		return chartentity.PricePoint{}, false
	}
	return w.buf[(w.start+w.n-1)%len(w.buf)], true
}

// Points は古い順に並べた点のコピーを返します。
func (w *Window) Points() []chartentity.PricePoint {
	out := make([]chartentity.PricePoint, w.n)
	for i := 0; i < w.n; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}
