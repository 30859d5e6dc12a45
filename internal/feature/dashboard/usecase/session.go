// Package usecase はダッシュボード画面の状態（銘柄・期間・お気に入り・取得済みデータ）を管理します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"stock_dashboard/internal/feature/chart/domain/entity"
	"stock_dashboard/internal/feature/chart/render"
	chartusecase "stock_dashboard/internal/feature/chart/usecase"
)

const (
	// DefaultSymbol は初期表示の銘柄です。
	DefaultSymbol = "RELIANCE.NS"
	// DefaultCompany は初期表示の検索欄の文字列です。
	DefaultCompany = "Reliance Industries"
	// MinQueryLength は候補検索を行う最小文字数です。
	MinQueryLength = 2
	// NoDataMessage は描画できるデータが無い場合の表示です。
	NoDataMessage = "No data available"
)

// DefaultFavorites はお気に入りの初期値です。
var DefaultFavorites = []string{"RELIANCE.NS", "TCS.NS", "INFY.NS"}

// Suggestion は検索候補です。Symbol は ".NS" を含まない銘柄コードです。
type Suggestion struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// ChartAPI はチャートAPIへのアクセスを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type ChartAPI interface {
	FetchChart(ctx context.Context, symbol string, r entity.Range) ([]entity.PricePoint, error)
	Search(ctx context.Context, query string) ([]Suggestion, error)
}

// State は画面状態のコピーです。
type State struct {
	Symbol       string
	CompanyInput string
	Range        entity.Range
	ChartType    render.ChartType
	Favorites    []string
	Suggestions  []Suggestion
	Data         []entity.PricePoint
	Loading      bool
}

// View は描画用のチャートと空状態の表示です。
type View struct {
	chartusecase.ChartView
	ChartType render.ChartType
	Empty     bool
	Message   string
}

// Session は1画面分のダッシュボードの状態です。
// 取得は銘柄・期間の変更ごとに行われ、応答が返るまでに新しい取得が始まっていれば古い応答は捨てます。
type Session struct {
	api ChartAPI
	loc *time.Location

	mu           sync.Mutex
	symbol       string
	companyInput string
	rng          entity.Range
	chartType    render.ChartType
	favorites    []string
	suggestions  []Suggestion
	data         []entity.PricePoint
	loading      bool

	// loadGen と searchGen は発行済みリクエストの世代で、古い応答の判定に使います。
	loadGen   uint64
	searchGen uint64
}

// NewSession は初期状態の Session を作ります。loc は軸ラベルのタイムゾーンです。
func NewSession(api ChartAPI, loc *time.Location) *Session {
	if loc == nil {
		loc = time.UTC
	}
	return &Session{
		api:          api,
		loc:          loc,
		symbol:       DefaultSymbol,
		companyInput: DefaultCompany,
		rng:          entity.Range1D,
		chartType:    render.Line,
		favorites:    slices.Clone(DefaultFavorites),
	}
}

// State は現在の状態のコピーを返します。
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Symbol:       s.symbol,
		CompanyInput: s.companyInput,
		Range:        s.rng,
		ChartType:    s.chartType,
		Favorites:    slices.Clone(s.favorites),
		Suggestions:  slices.Clone(s.suggestions),
		Data:         slices.Clone(s.data),
		Loading:      s.loading,
	}
}

// SetSymbol は表示銘柄を変更します。".NS" が無ければ付与します。
func (s *Session) SetSymbol(symbol string) {
	sym := chartusecase.NormalizeSymbol(symbol)
	if sym == "" {
		return
	}
	s.mu.Lock()
	s.symbol = sym
	s.mu.Unlock()
}

// SetRange は表示期間を変更します。未知の期間は状態を変えずにエラーを返します。
func (s *Session) SetRange(r string) error {
	parsed, ok := entity.ParseRange(r, entity.ChartRanges)
	if !ok {
		return fmt.Errorf("%w: %q", chartusecase.ErrInvalidRange, r)
	}
	s.mu.Lock()
	s.rng = parsed
	s.mu.Unlock()
	return nil
}

// SetChartType は折れ線/面グラフを切り替えます。
func (s *Session) SetChartType(t render.ChartType) {
	s.mu.Lock()
	s.chartType = t
	s.mu.Unlock()
}

// Input は検索欄の入力を反映し、MinQueryLength 文字以上なら候補を検索します。
// 検索の失敗はログに残し、候補を空にします。
func (s *Session) Input(ctx context.Context, text string) []Suggestion {
	s.mu.Lock()
	s.companyInput = text
	s.searchGen++
	gen := s.searchGen
	if len([]rune(strings.TrimSpace(text))) < MinQueryLength {
		s.suggestions = nil
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	found, err := s.api.Search(ctx, strings.TrimSpace(text))
	if err != nil {
		slog.Error("error fetching suggestions", "query", text, "error", err)
		found = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.searchGen {
		// 入力がさらに進んでいる
		return slices.Clone(s.suggestions)
	}
	s.suggestions = found
	return slices.Clone(found)
}

// Select は検索候補を選び、銘柄を "<SYMBOL>.NS" に切り替えます。
func (s *Session) Select(sug Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companyInput = sug.Name
	s.symbol = strings.ToUpper(strings.TrimSpace(sug.Symbol)) + chartusecase.SymbolSuffix
	s.suggestions = nil
	s.searchGen++
}

// ToggleFavorite は銘柄をお気に入りに追加、または削除します。追加した場合は true を返します。
func (s *Session) ToggleFavorite(symbol string) bool {
	sym := chartusecase.NormalizeSymbol(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.favorites, sym); i >= 0 {
		s.favorites = slices.Delete(s.favorites, i, i+1)
		return false
	}
	s.favorites = append(s.favorites, sym)
	return true
}

// IsFavorite は銘柄がお気に入りかを返します。
func (s *Session) IsFavorite(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.favorites, chartusecase.NormalizeSymbol(symbol))
}

// Load は現在の銘柄・期間でチャートを取得します。
// 応答が返る前に別の Load が始まった、または銘柄・期間が変わった場合は結果を反映せず false を返します。
// 取得の失敗はログに残し、データを空にします。
func (s *Session) Load(ctx context.Context) bool {
	s.mu.Lock()
	s.loadGen++
	gen, symbol, rng := s.loadGen, s.symbol, s.rng
	s.loading = true
	s.mu.Unlock()

	points, err := s.api.FetchChart(ctx, symbol, rng)
	if err != nil {
		slog.Error("error fetching chart data", "symbol", symbol, "range", rng, "error", err)
		points = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen || symbol != s.symbol || rng != s.rng {
		slog.Debug("discarding stale chart response", "symbol", symbol, "range", rng)
		// 後続の Load が無ければ、読み込み中の表示はここで終える
		if gen == s.loadGen {
			s.loading = false
		}
		return false
	}
	s.data = points
	s.loading = false
	return true
}

// View は取得済みデータを期間の規則で間引いた描画用チャートを返します。
func (s *Session) View() View {
	s.mu.Lock()
	symbol, rng, typ, data := s.symbol, s.rng, s.chartType, slices.Clone(s.data)
	s.mu.Unlock()

	cv := chartusecase.BuildView(symbol, rng, data, s.loc)
	v := View{ChartView: cv, ChartType: typ}
	if len(cv.Points) == 0 {
		v.Empty = true
		v.Message = NoDataMessage
	}
	return v
}
