// Package dto defines data transfer objects for the chart HTTP API.
package dto

import "stock_dashboard/internal/feature/chart/domain/entity"

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ChartViewResponse は間引き・ラベル付け済みチャートのレスポンスDTOです。
type ChartViewResponse struct {
	Symbol        string              `json:"symbol"`
	Range         string              `json:"range"`
	Points        []entity.PricePoint `json:"points"`
	Labels        []string            `json:"labels"`
	Change        float64             `json:"change"`
	ChangePercent float64             `json:"changePercent"`
	High          float64             `json:"high"`
	Low           float64             `json:"low"`
	Last          float64             `json:"last"`
}
