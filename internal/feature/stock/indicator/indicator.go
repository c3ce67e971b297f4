// Package indicator computes technical indicators over daily candle series.
//
// Every function is pure: it walks the chronological sequence left to right,
// derives its values with a streaming recurrence and attaches them to a copy
// of the input. The five families write disjoint fields, so they compose in
// any order. Fixed-window indicators leave their fields nil during warm-up;
// the oscillators emit their documented neutral values instead.
package indicator

import "stock_insight/internal/feature/stock/domain/entity"

// EnrichAll returns a copy of cs with all indicator families attached:
// MA5/10/20/30/60, MACD(12,26,9), RSI(14), KDJ(9,3,3) and BOLL(20,2).
// The input slice is never modified.
func EnrichAll(cs []entity.Candle) []entity.Candle {
	if len(cs) == 0 {
		return nil
	}
	out := make([]entity.Candle, len(cs))
	copy(out, cs)

	attachMovingAverages(out)
	attachMACD(out, 12, 26, 9)
	attachRSI(out, 14)
	attachKDJ(out, 9, 3, 3)
	attachBollinger(out, 20, 2)

	return out
}

// fptr returns a pointer to a fresh copy of v.
func fptr(v float64) *float64 { return &v }
