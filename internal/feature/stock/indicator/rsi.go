package indicator

import "stock_insight/internal/feature/stock/domain/entity"

// attachRSI writes RSI in place using Wilder's method.
//
// The first `period` deltas build a simple average of gains and losses; from
// then on both averages are smoothed with (prior×(period−1)+current)/period.
// Bars inside the warm-up window carry the neutral 50 rather than nil. A
// trailing window with zero average loss maps to RS=100, not infinity, which
// keeps the output inside [0,100].
func attachRSI(cs []entity.Candle, period int) {
	avgGain := 0.0
	avgLoss := 0.0

	for i := range cs {
		if i == 0 {
			cs[i].RSI = fptr(50)
			continue
		}

		delta := cs[i].Close - cs[i-1].Close
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		p := float64(period)
		switch {
		case i < period:
			// Still accumulating the seed averages.
			avgGain += gain
			avgLoss += loss
			cs[i].RSI = fptr(50)
			continue
		case i == period:
			// First real value: simple average over the initial deltas.
			avgGain = (avgGain + gain) / p
			avgLoss = (avgLoss + loss) / p
		default:
			avgGain = (avgGain*(p-1) + gain) / p
			avgLoss = (avgLoss*(p-1) + loss) / p
		}

		rs := 100.0
		if avgLoss > 0 {
			rs = avgGain / avgLoss
		}
		cs[i].RSI = fptr(100 - 100/(1+rs))
	}
}
