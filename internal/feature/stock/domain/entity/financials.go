package entity

import "time"

// FinancialSnapshot holds point-in-time valuation and fundamental ratios for
// a security. Every field is independently nullable: nil means the source had
// no data, which is different from zero. Values are never overwritten once
// present; the reconciler only fills gaps.
type FinancialSnapshot struct {
	PETTM         *float64 `json:"peTTM,omitempty"`         // Trailing-twelve-month price/earnings
	PB            *float64 `json:"pb,omitempty"`            // Price/book
	DividendYield *float64 `json:"dividendYield,omitempty"` // Percent
	MarketCap     *float64 `json:"marketCap,omitempty"`     // Total market capitalization
	FloatCap      *float64 `json:"floatCap,omitempty"`      // Free-float capitalization
	TurnoverRate  *float64 `json:"turnoverRate,omitempty"`  // Percent
	TotalShares   *float64 `json:"totalShares,omitempty"`

	ROE              *float64 `json:"roe,omitempty"`              // Return on equity, percent
	NetMargin        *float64 `json:"netMargin,omitempty"`        // Percent
	GrossMargin      *float64 `json:"grossMargin,omitempty"`      // Percent
	DebtRatio        *float64 `json:"debtRatio,omitempty"`        // Liabilities/assets, percent
	AssetTurnover    *float64 `json:"assetTurnover,omitempty"`    // Revenue/assets
	EquityMultiplier *float64 `json:"equityMultiplier,omitempty"` // Assets/equity

	// ReportDate is the period the fundamentals were sourced from.
	ReportDate *time.Time `json:"reportDate,omitempty"`

	// DerivedROE marks ROE as the P/B ÷ P/E approximation rather than a
	// reported figure. AssumedDebtRatio marks the 50.0 placeholder. Both are
	// estimates, not measurements, and consumers should treat them as such.
	DerivedROE       bool `json:"derivedROE,omitempty"`
	AssumedDebtRatio bool `json:"assumedDebtRatio,omitempty"`
}

// IsZero reports whether the snapshot carries no data at all.
func (s FinancialSnapshot) IsZero() bool {
	return s.PETTM == nil && s.PB == nil && s.DividendYield == nil &&
		s.MarketCap == nil && s.FloatCap == nil && s.TurnoverRate == nil &&
		s.TotalShares == nil && s.ROE == nil && s.NetMargin == nil &&
		s.GrossMargin == nil && s.DebtRatio == nil && s.AssetTurnover == nil &&
		s.EquityMultiplier == nil && s.ReportDate == nil
}
