package indicator

import "stock_insight/internal/feature/stock/domain/entity"

// attachKDJ writes the K/D/J triple in place.
//
// The raw stochastic value (RSV) locates the close inside the trailing n-bar
// high/low range on a 0–100 scale; a flat range (high == low) maps to 50.
// K and D are recursive averages seeded at 50, weighting the new value 1/m
// and the prior (m−1)/m. J = 3K − 2D and may leave [0,100]. Bars before the
// n-bar window has filled carry the neutral 50/50/50.
func attachKDJ(cs []entity.Candle, n, m1, m2 int) {
	k, d := 50.0, 50.0

	for i := range cs {
		if i < n-1 {
			cs[i].K = fptr(50)
			cs[i].D = fptr(50)
			cs[i].J = fptr(50)
			continue
		}

		high := cs[i].High
		low := cs[i].Low
		for j := i - n + 1; j < i; j++ {
			if cs[j].High > high {
				high = cs[j].High
			}
			if cs[j].Low < low {
				low = cs[j].Low
			}
		}

		rsv := 50.0
		if high > low {
			rsv = (cs[i].Close - low) / (high - low) * 100
		}

		k = (float64(m1-1)*k + rsv) / float64(m1)
		d = (float64(m2-1)*d + k) / float64(m2)

		cs[i].K = fptr(k)
		cs[i].D = fptr(d)
		cs[i].J = fptr(3*k - 2*d)
	}
}
