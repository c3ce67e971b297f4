package indicator

import "stock_insight/internal/feature/stock/domain/entity"

// attachMACD writes the DIF/DEA/MACD triple in place.
//
// Both EMAs are seeded at the first close rather than left nil, so DIF starts
// at exactly zero and the first bar emits (0,0,0) by convention. Smoothing
// factors are the usual 2/(n+1); the histogram is 2×(DIF−DEA).
func attachMACD(cs []entity.Candle, short, long, signal int) {
	if len(cs) == 0 {
		return
	}

	alphaShort := 2.0 / float64(short+1)
	alphaLong := 2.0 / float64(long+1)
	alphaSignal := 2.0 / float64(signal+1)

	emaShort := cs[0].Close
	emaLong := cs[0].Close
	dea := 0.0

	cs[0].DIF = fptr(0)
	cs[0].DEA = fptr(0)
	cs[0].MACD = fptr(0)

	for i := 1; i < len(cs); i++ {
		c := cs[i].Close
		emaShort = c*alphaShort + emaShort*(1-alphaShort)
		emaLong = c*alphaLong + emaLong*(1-alphaLong)

		dif := emaShort - emaLong
		dea = dif*alphaSignal + dea*(1-alphaSignal)

		cs[i].DIF = fptr(dif)
		cs[i].DEA = fptr(dea)
		cs[i].MACD = fptr(2 * (dif - dea))
	}
}
