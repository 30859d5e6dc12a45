// Package dto defines data transfer objects for the symbol search HTTP API.
package dto

// Suggestion represents a search hit in the API response.
// Symbol is the bare exchange code; clients append ".NS" before requesting a chart.
type Suggestion struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
