// Package adapters はsymbolsearchフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_dashboard/internal/feature/symbolsearch/domain/entity"
	"stock_dashboard/internal/feature/symbolsearch/usecase"
)

// upsertBatchSize はSQLiteの変数上限に収まる1回あたりの挿入件数です。
const upsertBatchSize = 200

// symbolGorm はSymbolRepositoryインターフェースのgorm実装です（SQLite / PostgreSQL）。
type symbolGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolRepository は指定されたDB接続でsymbolGormリポジトリの新しいインスタンスを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// Search は銘柄コードまたは会社名に query を含むアクティブな銘柄を返します。
// query は大文字で比較し、LIKE のワイルドカード文字はエスケープします。
func (r *symbolGorm) Search(ctx context.Context, query string, limit int) ([]entity.Symbol, error) {
	pattern := "%" + escapeLike(strings.ToUpper(query)) + "%"

	var symbols []entity.Symbol
	q := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(`(UPPER(code) LIKE ? ESCAPE '\' OR UPPER(name) LIKE ? ESCAPE '\')`, pattern, pattern).
		Order("sort_key ASC").
		Order("code ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes はsort_key順にアクティブな銘柄のコードのみを返します。
func (r *symbolGorm) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// UpsertBatch は銘柄コードをキーに銘柄を挿入、または名称・シリーズ等を更新します。
func (r *symbolGorm) UpsertBatch(ctx context.Context, symbols []entity.Symbol) error {
	if len(symbols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "series", "isin", "is_active", "sort_key", "updated_at"}),
	}).CreateInBatches(&symbols, upsertBatchSize).Error
}

// escapeLike はLIKE句の特殊文字をエスケープします。
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
