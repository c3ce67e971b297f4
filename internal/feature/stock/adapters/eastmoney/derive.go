package eastmoney

import (
	"time"

	"stock_insight/internal/feature/stock/adapters/eastmoney/dto"
	"stock_insight/internal/feature/stock/domain/entity"
)

// reportDateLayouts are the timestamp forms the data center is known to emit.
var reportDateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// selectReport picks the most recent report whose date is not in the future
// and which carries at least a revenue or net-profit figure. Rows arrive
// newest first, so the first acceptable row wins.
func selectReport(rows []dto.ReportRow, now time.Time) (dto.ReportRow, time.Time, bool) {
	for _, row := range rows {
		date, ok := parseReportDate(row.ReportDate)
		if !ok || date.After(now) {
			continue
		}
		hasRevenue := row.Revenue.Valid && row.Revenue.Value != 0
		hasProfit := row.NetProfit.Valid && row.NetProfit.Value != 0
		if !hasRevenue && !hasProfit {
			continue
		}
		return row, date, true
	}
	return dto.ReportRow{}, time.Time{}, false
}

func parseReportDate(s string) (time.Time, bool) {
	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// deriveFundamentals computes the ratio battery from raw balance-sheet and
// income figures, falling back to the vendor-provided ratios when the raw
// figures are zero or absent.
func deriveFundamentals(row dto.ReportRow, reportDate time.Time) entity.FinancialSnapshot {
	snap := entity.FinancialSnapshot{ReportDate: &reportDate}

	revenue := value(row.Revenue)
	profit := value(row.NetProfit)
	assets := value(row.TotalAssets)
	liabilities := value(row.TotalLiabilities)
	equity := value(row.ParentEquity)

	// Net margin: profit over revenue, in percent.
	if revenue != 0 && profit != 0 {
		snap.NetMargin = fptr(profit / revenue * 100)
	} else {
		snap.NetMargin = row.VendorNetMargin.Ptr()
	}

	// Asset turnover: revenue over assets.
	if revenue != 0 && assets != 0 {
		snap.AssetTurnover = fptr(revenue / assets)
	}

	// Debt ratio: liabilities over assets, in percent.
	if liabilities != 0 && assets != 0 {
		snap.DebtRatio = fptr(liabilities / assets * 100)
	} else {
		snap.DebtRatio = row.VendorDebtRatio.Ptr()
	}

	// Equity multiplier: assets over parent equity.
	if assets != 0 && equity != 0 {
		snap.EquityMultiplier = fptr(assets / equity)
	}

	// ROE: profit over parent equity, in percent.
	if profit != 0 && equity != 0 {
		snap.ROE = fptr(profit / equity * 100)
	} else {
		snap.ROE = row.VendorROE.Ptr()
	}

	snap.GrossMargin = row.VendorGrossMarg.Ptr()

	return snap
}

// mergeSnapshots overlays the realtime quote fields onto the report-derived
// fields. Neither side overwrites a value the other already has; the quote
// wins only the fields the report never carries.
func mergeSnapshots(quote, report entity.FinancialSnapshot) entity.FinancialSnapshot {
	out := report
	if out.PETTM == nil {
		out.PETTM = quote.PETTM
	}
	if out.PB == nil {
		out.PB = quote.PB
	}
	if out.DividendYield == nil {
		out.DividendYield = quote.DividendYield
	}
	if out.MarketCap == nil {
		out.MarketCap = quote.MarketCap
	}
	if out.FloatCap == nil {
		out.FloatCap = quote.FloatCap
	}
	if out.TurnoverRate == nil {
		out.TurnoverRate = quote.TurnoverRate
	}
	if out.TotalShares == nil {
		out.TotalShares = quote.TotalShares
	}
	return out
}

func value(n dto.Nullable) float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

func fptr(v float64) *float64 { return &v }
