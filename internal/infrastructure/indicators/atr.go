package indicators

import "math"

// CalculateATR computes the Average True Range (Wilder smoothing) over
// columns ordered oldest-first. Entries before the warm-up period are zero.
func CalculateATR(highs, lows, closes []float64, period int) []float64 {
	length := len(closes)
	atr := make([]float64, length)
	if period < 1 || length < period+1 {
		return atr
	}

	trs := make([]float64, length)
	trs[0] = highs[0] - lows[0]
	for i := 1; i < length; i++ {
		tr := highs[i] - lows[i]
		if hc := math.Abs(highs[i] - closes[i-1]); hc > tr {
			tr = hc
		}
		if lc := math.Abs(lows[i] - closes[i-1]); lc > tr {
			tr = lc
		}
		trs[i] = tr
	}

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += trs[i]
	}
	atr[period-1] = seed / float64(period)

	for i := period; i < length; i++ {
		atr[i] = (atr[i-1]*float64(period-1) + trs[i]) / float64(period)
	}

	return atr
}
