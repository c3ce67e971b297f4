package entity

import "time"

// StockRecord is the aggregate handed to consumers: the security identity,
// its enriched candle history and, when available, a fundamentals snapshot.
// A record is assembled once per cache miss and never mutated afterwards;
// consumers must treat it as an immutable value.
type StockRecord struct {
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	Source     string             `json:"source"` // Adapter that won the failover
	Candles    []Candle           `json:"candles"`
	UpdatedAt  time.Time          `json:"updatedAt"`
	Financials *FinancialSnapshot `json:"financials,omitempty"`
}

// Latest returns the most recent candle, or nil for an empty record.
func (r *StockRecord) Latest() *Candle {
	if len(r.Candles) == 0 {
		return nil
	}
	return &r.Candles[len(r.Candles)-1]
}
