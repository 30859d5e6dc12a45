// Package usecase implements the business logic for company/ticker search.
package usecase

import (
	"context"
	"strings"

	"stock_dashboard/internal/feature/symbolsearch/domain/entity"
)

// MaxResults caps the number of suggestions returned for a single query.
const MaxResults = 50

// SymbolRepository abstracts the persistence layer for the symbol index.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	Search(ctx context.Context, query string, limit int) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
	UpsertBatch(ctx context.Context, symbols []entity.Symbol) error
}

// SearchUsecase provides business logic for symbol search.
type SearchUsecase struct {
	repo SymbolRepository
}

// NewSearchUsecase creates a new SearchUsecase with the given repository.
func NewSearchUsecase(r SymbolRepository) *SearchUsecase {
	return &SearchUsecase{repo: r}
}

// Search returns symbols whose code or company name contains q.
// A blank query returns no results without touching the repository.
func (u *SearchUsecase) Search(ctx context.Context, q string) ([]entity.Symbol, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []entity.Symbol{}, nil
	}
	return u.repo.Search(ctx, q, MaxResults)
}

// Import stores the given symbols, replacing names and ordering of existing codes.
func (u *SearchUsecase) Import(ctx context.Context, symbols []entity.Symbol) error {
	return u.repo.UpsertBatch(ctx, symbols)
}

// ActiveCodes returns the codes of all active symbols in display order.
func (u *SearchUsecase) ActiveCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}
