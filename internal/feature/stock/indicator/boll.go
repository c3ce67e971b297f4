package indicator

import (
	"math"

	"stock_insight/internal/feature/stock/domain/entity"
)

// attachBollinger writes the Bollinger band triple in place.
//
// The middle band is SMA(period) of the close; the outer bands sit k
// population standard deviations away. Bars before the window has filled
// stay nil.
func attachBollinger(cs []entity.Candle, period int, k float64) {
	if period <= 0 {
		return
	}

	sum := 0.0
	sumSq := 0.0
	for i := range cs {
		c := cs[i].Close
		sum += c
		sumSq += c * c
		if i >= period {
			old := cs[i-period].Close
			sum -= old
			sumSq -= old * old
		}
		if i < period-1 {
			continue
		}

		n := float64(period)
		mean := sum / n
		variance := sumSq/n - mean*mean
		if variance < 0 {
			// Floating-point cancellation can push a zero variance negative.
			variance = 0
		}
		sd := math.Sqrt(variance)

		cs[i].BollMid = fptr(mean)
		cs[i].BollUpper = fptr(mean + k*sd)
		cs[i].BollLower = fptr(mean - k*sd)
	}
}
