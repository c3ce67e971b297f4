// Package entity defines the domain models for the stock feature.
package entity

import "time"

// Candle represents one daily OHLCV bar for a security.
//
// The price fields always come from the winning data source. The indicator
// fields are attached afterwards by the indicator package and are nil until
// that enrichment pass has run, or when the bar falls inside an indicator's
// warm-up window.
type Candle struct {
	Date   time.Time `json:"date"`   // Trading day (time component is always midnight UTC)
	Open   float64   `json:"open"`   // Opening price
	High   float64   `json:"high"`   // Highest price of the day
	Low    float64   `json:"low"`    // Lowest price of the day
	Close  float64   `json:"close"`  // Closing price
	Volume int64     `json:"volume"` // Traded volume in shares
	Amount float64   `json:"amount"` // Traded value

	Turnover *float64 `json:"turnover,omitempty"` // Turnover rate in percent, when the source reports it
	PctChg   *float64 `json:"pctChg,omitempty"`   // Percent change versus the previous close

	// Moving averages of the close.
	MA5  *float64 `json:"ma5,omitempty"`
	MA10 *float64 `json:"ma10,omitempty"`
	MA20 *float64 `json:"ma20,omitempty"`
	MA30 *float64 `json:"ma30,omitempty"`
	MA60 *float64 `json:"ma60,omitempty"`

	// MACD(12,26,9) triple. Zero-valued (not nil) on the first bar by convention.
	DIF  *float64 `json:"dif,omitempty"`
	DEA  *float64 `json:"dea,omitempty"`
	MACD *float64 `json:"macd,omitempty"`

	// RSI(14). Neutral 50 inside the warm-up window.
	RSI *float64 `json:"rsi,omitempty"`

	// KDJ(9,3,3) triple. K and D stay in [0,100]; J is unbounded.
	K *float64 `json:"k,omitempty"`
	D *float64 `json:"d,omitempty"`
	J *float64 `json:"j,omitempty"`

	// Bollinger(20,2) bands. Nil inside the warm-up window.
	BollUpper *float64 `json:"bollUpper,omitempty"`
	BollMid   *float64 `json:"bollMid,omitempty"`
	BollLower *float64 `json:"bollLower,omitempty"`
}

// Series is a named, chronologically ordered candle sequence as returned by
// one source adapter. Name may be empty when the source does not carry it.
type Series struct {
	Name    string   `json:"name"`
	Candles []Candle `json:"candles"`
}
