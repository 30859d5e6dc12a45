// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

// TimeSeriesResponse represents the JSON response from the Twelve Data time_series endpoint.
// Values are ordered newest first.
type TimeSeriesResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Meta    struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
		Exchange string `json:"exchange"`
	} `json:"meta"`
	Values []struct {
		Datetime string `json:"datetime"`
		Close    string `json:"close"`
		Volume   string `json:"volume,omitempty"`
	} `json:"values"`
}
