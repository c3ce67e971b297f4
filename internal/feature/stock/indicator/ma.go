package indicator

import "stock_insight/internal/feature/stock/domain/entity"

// SMA computes the simple moving average of the close over a trailing window.
// The result is index-aligned with cs; entries before the window has filled
// (index < period-1) are nil.
func SMA(cs []entity.Candle, period int) []*float64 {
	out := make([]*float64, len(cs))
	if period <= 0 {
		return out
	}
	sum := 0.0
	for i := range cs {
		sum += cs[i].Close
		if i >= period {
			sum -= cs[i-period].Close
		}
		if i >= period-1 {
			out[i] = fptr(sum / float64(period))
		}
	}
	return out
}

// attachMovingAverages writes the five standard moving averages in place.
func attachMovingAverages(cs []entity.Candle) {
	ma5 := SMA(cs, 5)
	ma10 := SMA(cs, 10)
	ma20 := SMA(cs, 20)
	ma30 := SMA(cs, 30)
	ma60 := SMA(cs, 60)
	for i := range cs {
		cs[i].MA5 = ma5[i]
		cs[i].MA10 = ma10[i]
		cs[i].MA20 = ma20[i]
		cs[i].MA30 = ma30[i]
		cs[i].MA60 = ma60[i]
	}
}
