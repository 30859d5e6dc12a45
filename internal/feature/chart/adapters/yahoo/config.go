// Package yahoo provides a MarketRepository backed by the Yahoo Finance chart API.
package yahoo

import (
	"os"
	"time"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL        string        // Base URL for the API (e.g., "https://query1.finance.yahoo.com")
	Timeout        time.Duration // HTTP request timeout
	RequestsPerMin int           // Upstream calls allowed per minute
}

// LoadConfig loads Yahoo Finance configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("YAHOO_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		BaseURL:        base,
		Timeout:        10 * time.Second,
		RequestsPerMin: 60,
	}
}
