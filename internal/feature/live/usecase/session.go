// Package usecase はライブティッカー画面のセッション（価格更新タイマーと選択状態）を実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	chartentity "stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/live/domain/entity"
	"stock_dashboard/internal/feature/live/domain/pricewalk"
)

// DefaultTickInterval は価格更新の間隔です。
const DefaultTickInterval = 2 * time.Second

// Tick は1回の価格更新で確定した全銘柄の気配です。
type Tick struct {
	SessionID string
	Time      time.Time
	Quotes    []entity.Quote
}

// Publisher は価格更新の送信先です。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Publisher interface {
	Publish(ctx context.Context, tick Tick) error
}

// NopPublisher は何もしない Publisher です。
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Tick) error { return nil }

// Snapshot はセッションのある時点の状態です。
type Snapshot struct {
	SessionID string
	Time      time.Time
	Quotes    []entity.Quote
	Selected  entity.Quote
	Range     chartentity.Range
	Chart     []chartentity.PricePoint
}

// Options は Session の生成オプションです。ゼロ値の項目は既定値を使います。
type Options struct {
	Interval  time.Duration
	Location  *time.Location
	Rand      pricewalk.Source
	Now       func() time.Time
	Publisher Publisher
	// OnTick はタイマーによる更新のたびにロックの外で呼ばれます。
	OnTick func(Snapshot)
}

// Session は1画面分のライブティッカーです。
// 全銘柄の価格はティックごとに更新されますが、チャートに点が追加されるのは選択中の銘柄だけです。
type Session struct {
	mu sync.Mutex

	id       string
	quotes   []entity.Quote
	selected int
	rng      chartentity.Range
	window   *pricewalk.Window

	interval  time.Duration
	loc       *time.Location
	rnd       pricewalk.Source
	now       func() time.Time
	publisher Publisher
	onTick    func(Snapshot)

	ctx  context.Context
	cron *cron.Cron
	// quit は Start ごとに作られ、Stop で閉じられます。ctx を監視するゴルーチンの終了に使います。
	quit chan struct{}
	// gen はタイマーを張り直すたびに増え、古いジョブの発火を無視するために使います。
	gen uint64
}

// NewSession は quotes を追跡する Session を作ります。先頭の銘柄と1Dが初期選択です。
// quotes が空の場合は DefaultQuotes を使います。
func NewSession(quotes []entity.Quote, opts Options) *Session {
	if len(quotes) == 0 {
		quotes = entity.DefaultQuotes()
	}
	s := &Session{
		id:        uuid.NewString(),
		quotes:    append([]entity.Quote(nil), quotes...),
		rng:       chartentity.Range1D,
		interval:  opts.Interval,
		loc:       opts.Location,
		rnd:       opts.Rand,
		now:       opts.Now,
		publisher: opts.Publisher,
		onTick:    opts.OnTick,
	}
	if s.interval <= 0 {
		s.interval = DefaultTickInterval
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.publisher == nil {
		s.publisher = NopPublisher{}
	}
	s.window = pricewalk.NewWindow(pricewalk.WindowSize, nil)
	s.reseedLocked()
	return s
}

// ID はセッションの識別子です。
func (s *Session) ID() string { return s.id }

// Start は価格更新タイマーを開始します。すでに動いている場合は何もしません。
// ctx は Publisher への送信に使われ、ctx が終了するとタイマーも止まります。nil の場合は context.Background です。
func (s *Session) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}
	s.ctx = ctx
	if err := s.startLocked(); err != nil {
		return err
	}
	if done := ctx.Done(); done != nil {
		quit := make(chan struct{})
		s.quit = quit
		go s.watch(done, quit)
	}
	return nil
}

// watch は Start に渡された ctx の終了でタイマーを止めます。
// その間に Stop と Start が呼ばれていれば、新しい実行には触れません。
func (s *Session) watch(done <-chan struct{}, quit chan struct{}) {
	select {
	case <-done:
		s.mu.Lock()
		if s.quit == quit {
			s.stopRunLocked()
		}
		s.mu.Unlock()
	case <-quit:
	}
}

// Stop はタイマーを止めます。何度呼んでも安全です。
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRunLocked()
}

// Running はタイマーが動作中かを返します。
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Select は追跡中の銘柄を選択します。大文字小文字と ".NS" 接尾辞は区別しません。
// 別の銘柄に切り替えた場合はチャートを作り直し、動作中のタイマーを張り直します。
func (s *Session) Select(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(symbol)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}
	if idx == s.selected {
		return nil
	}
	s.selected = idx
	s.reseedLocked()

	if s.cron != nil {
		s.stopLocked()
		if err := s.startLocked(); err != nil {
			return err
		}
	}
	return nil
}

// SelectRange はチャートの期間を切り替え、チャートを作り直します。タイマーはそのままです。
func (s *Session) SelectRange(r string) error {
	parsed, ok := chartentity.ParseRange(r, chartentity.LiveRanges)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidRange, r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if parsed == s.rng {
		return nil
	}
	s.rng = parsed
	s.reseedLocked()
	return nil
}

// Snapshot は現在の状態のコピーを返します。
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.now().In(s.loc))
}

// Advance は1ティック分だけ全銘柄の価格を動かし、選択中の銘柄のチャートに点を追加します。
func (s *Session) Advance() Snapshot {
	s.mu.Lock()
	snap := s.advanceLocked()
	ctx := s.ctx
	s.mu.Unlock()

	s.publish(ctx, snap)
	return snap
}

func (s *Session) advanceLocked() Snapshot {
	now := s.now().In(s.loc)
	s.quotes = pricewalk.TickAll(s.quotes, s.rnd)

	last, ok := s.window.Last()
	if !ok {
		last = chartentity.PricePoint{Price: s.quotes[s.selected].Price}
	}
	s.window.Append(pricewalk.NextPoint(last, s.rnd, now))
	return s.snapshotLocked(now)
}

// fire はタイマーから呼ばれます。張り直し前の世代のジョブは無視します。
func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if s.cron == nil || gen != s.gen {
		s.mu.Unlock()
		return
	}
	snap := s.advanceLocked()
	onTick := s.onTick
	ctx := s.ctx
	s.mu.Unlock()

	s.publish(ctx, snap)
	if onTick != nil {
		onTick(snap)
	}
}

func (s *Session) publish(ctx context.Context, snap Snapshot) {
	if ctx == nil {
		ctx = context.Background()
	}
	tick := Tick{SessionID: snap.SessionID, Time: snap.Time, Quotes: snap.Quotes}
	if err := s.publisher.Publish(ctx, tick); err != nil {
		slog.Warn("failed to publish live tick", "session", s.id, "error", err)
	}
}

func (s *Session) startLocked() error {
	s.gen++
	gen := s.gen
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), func() { s.fire(gen) }); err != nil {
		return fmt.Errorf("schedule live tick: %w", err)
	}
	c.Start()
	s.cron = c
	slog.Debug("live ticker started", "session", s.id, "symbol", s.quotes[s.selected].Symbol, "interval", s.interval)
	return nil
}

func (s *Session) stopLocked() {
	if s.cron == nil {
		return
	}
	// 実行中のジョブはロック待ちになり得るため、完了は待たない
	s.cron.Stop()
	s.cron = nil
	s.gen++
	slog.Debug("live ticker stopped", "session", s.id)
}

// stopRunLocked はタイマーと ctx の監視をまとめて終了します。
func (s *Session) stopRunLocked() {
	s.stopLocked()
	if s.quit != nil {
		close(s.quit)
		s.quit = nil
	}
}

func (s *Session) reseedLocked() {
	base := s.quotes[s.selected].Price
	s.window.Reset(pricewalk.SeedSeries(base, s.rng, s.now().In(s.loc), s.rnd))
}

func (s *Session) indexLocked(symbol string) int {
	sym := strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(symbol)), ".NS")
	for i, q := range s.quotes {
		if q.Symbol == sym {
			return i
		}
	}
	return -1
}

func (s *Session) snapshotLocked(now time.Time) Snapshot {
	return Snapshot{
		SessionID: s.id,
		Time:      now,
		Quotes:    append([]entity.Quote(nil), s.quotes...),
		Selected:  s.quotes[s.selected],
		Range:     s.rng,
		Chart:     s.window.Points(),
	}
}
