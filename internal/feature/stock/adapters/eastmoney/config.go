// Package eastmoney implements the primary data source on the Eastmoney
// quote, history and data-center endpoints.
package eastmoney

import (
	"os"
	"time"
)

// Config holds configuration for the Eastmoney client.
type Config struct {
	HistoryBaseURL    string        // Kline endpoint base (e.g. "https://push2his.eastmoney.com")
	QuoteBaseURL      string        // Realtime snapshot endpoint base (e.g. "https://push2.eastmoney.com")
	DataCenterBaseURL string        // Periodic-report endpoint base (e.g. "https://datacenter.eastmoney.com")
	Timeout           time.Duration // Per-call timeout
	Bars              int           // Number of daily bars to request
	Reports           int           // Number of periodic reports to request
}

// LoadConfig loads the Eastmoney client configuration from environment
// variables, falling back to the public endpoints.
func LoadConfig() Config {
	cfg := Config{
		HistoryBaseURL:    os.Getenv("EASTMONEY_HISTORY_BASE_URL"),
		QuoteBaseURL:      os.Getenv("EASTMONEY_QUOTE_BASE_URL"),
		DataCenterBaseURL: os.Getenv("EASTMONEY_DATACENTER_BASE_URL"),
		Timeout:           10 * time.Second,
		Bars:              320,
		Reports:           8,
	}
	if cfg.HistoryBaseURL == "" {
		cfg.HistoryBaseURL = "https://push2his.eastmoney.com"
	}
	if cfg.QuoteBaseURL == "" {
		cfg.QuoteBaseURL = "https://push2.eastmoney.com"
	}
	if cfg.DataCenterBaseURL == "" {
		cfg.DataCenterBaseURL = "https://datacenter.eastmoney.com"
	}
	return cfg
}
