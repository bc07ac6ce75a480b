package indicators

// CalculateEMA computes the Exponential Moving Average over data ordered
// oldest-first. Entries before the warm-up period are zero.
func CalculateEMA(data []float64, period int) []float64 {
	ema := make([]float64, len(data))
	if period < 1 || len(data) < period {
		return ema
	}

	k := 2.0 / (float64(period) + 1.0)

	// Seed with a simple average of the first period values.
	seed := 0.0
	for i := 0; i < period; i++ {
		seed += data[i]
	}
	ema[period-1] = seed / float64(period)

	for i := period; i < len(data); i++ {
		ema[i] = data[i]*k + ema[i-1]*(1-k)
	}

	return ema
}
