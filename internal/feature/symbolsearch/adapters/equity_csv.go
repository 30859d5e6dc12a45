package adapters

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"stock_dashboard/internal/feature/symbolsearch/domain/entity"
)

// NSEの銘柄一覧 EQUITY_L.csv の列名です。実ファイルでは先頭に空白が付く列があります。
const (
	colSymbol = "SYMBOL"
	colName   = "NAME OF COMPANY"
	colSeries = "SERIES"
	colISIN   = "ISIN NUMBER"
)

// ErrMissingColumn は必須列が見つからない場合のエラーです。
var ErrMissingColumn = errors.New("equity list: missing required column")

// ParseEquityList はNSEの EQUITY_L.csv を読み込み、ファイル内の順序を SortKey とした銘柄一覧を返します。
// 銘柄コードが空の行は読み飛ばします。
func ParseEquityList(r io.Reader) ([]entity.Symbol, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("equity list: read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{colSymbol, colName} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, required)
		}
	}

	field := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []entity.Symbol
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("equity list: line %d: %w", line, err)
		}
		code := strings.ToUpper(field(rec, colSymbol))
		if code == "" {
			continue
		}
		series := field(rec, colSeries)
		if series == "" {
			series = "EQ"
		}
		out = append(out, entity.Symbol{
			Code:     code,
			Name:     field(rec, colName),
			Series:   series,
			ISIN:     field(rec, colISIN),
			IsActive: true,
			SortKey:  len(out) + 1,
		})
	}
	return out, nil
}
