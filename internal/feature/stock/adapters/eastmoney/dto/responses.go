// Package dto defines data transfer objects for the Eastmoney API responses.
package dto

import (
	"bytes"
	"strconv"
)

// Nullable is a float64 that decodes Eastmoney's "-" placeholder (and any
// other non-numeric value) as absent instead of failing the whole payload.
type Nullable struct {
	Value float64
	Valid bool
}

// UnmarshalJSON accepts numbers, numeric strings, "-" and null.
func (n *Nullable) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	if s == "" || s == "-" || s == "null" {
		*n = Nullable{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = Nullable{}
		return nil
	}
	*n = Nullable{Value: v, Valid: true}
	return nil
}

// Ptr returns the value as a *float64, nil when absent.
func (n Nullable) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// KlineResponse represents the JSON response from the kline endpoint.
// Each kline entry is a comma-separated row:
// date,open,close,high,low,volume,amount,amplitude,pctChg,change,turnover.
type KlineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// QuoteResponse represents the realtime valuation snapshot. Ratio fields
// arrive scaled by 100 (f162=680 means P/E 6.80).
type QuoteResponse struct {
	Data *struct {
		Name          string   `json:"f58"`
		TotalShares   Nullable `json:"f84"`
		MarketCap     Nullable `json:"f116"`
		FloatCap      Nullable `json:"f117"`
		PETTM         Nullable `json:"f162"`
		PB            Nullable `json:"f167"`
		TurnoverRate  Nullable `json:"f168"`
		DividendYield Nullable `json:"f183"`
	} `json:"data"`
}

// ReportRow is one periodic report in the deep-fundamentals payload.
// Raw balance-sheet and income figures come first; the trailing fields are
// vendor-computed ratios used as fallbacks when the raw figures are missing.
type ReportRow struct {
	ReportDate       string   `json:"REPORT_DATE"`
	Revenue          Nullable `json:"TOTAL_OPERATE_INCOME"`
	NetProfit        Nullable `json:"PARENT_NETPROFIT"`
	TotalAssets      Nullable `json:"TOTAL_ASSETS"`
	TotalLiabilities Nullable `json:"TOTAL_LIABILITIES"`
	ParentEquity     Nullable `json:"TOTAL_PARENT_EQUITY"`
	VendorROE        Nullable `json:"WEIGHTAVG_ROE"`
	VendorNetMargin  Nullable `json:"XSJLL"`
	VendorGrossMarg  Nullable `json:"XSMLL"`
	VendorDebtRatio  Nullable `json:"ZCFZL"`
}

// ReportResponse represents the deep-fundamentals payload: the last several
// periodic reports, newest first.
type ReportResponse struct {
	Result *struct {
		Data []ReportRow `json:"data"`
	} `json:"result"`
}
