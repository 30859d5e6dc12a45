// Package handler はsymbolsearchフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/feature/symbolsearch/domain/entity"
	"stock_dashboard/internal/feature/symbolsearch/transport/http/dto"
)

// SearchUsecase は銘柄検索に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SearchUsecase interface {
	Search(ctx context.Context, q string) ([]entity.Symbol, error)
}

// SearchHandler は銘柄検索に関するHTTPリクエストを処理します。
type SearchHandler struct {
	uc SearchUsecase
}

// NewSearchHandler は新しい SearchHandler を作成します。
func NewSearchHandler(uc SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

// Search は入力途中の会社名・銘柄コードから候補一覧を返すAPIです。
//
// エンドポイント例:
// GET /api/search/?q=RELI
func (h *SearchHandler) Search(c *gin.Context) {
	symbols, err := h.uc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		slog.Error("symbol search failed", "query", c.Query("q"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.Suggestion, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, dto.Suggestion{Name: s.Name, Symbol: s.Code})
	}
	c.JSON(http.StatusOK, out)
}
