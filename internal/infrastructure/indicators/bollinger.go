package indicators

import "math"

// BollingerBands holds the three band columns, aligned with the input.
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// CalculateBollingerBands computes Bollinger Bands over closes ordered
// oldest-first. The middle band is a simple moving average; the outer bands
// sit multiplier standard deviations away.
func CalculateBollingerBands(closes []float64, period int, multiplier float64) BollingerBands {
	length := len(closes)
	bands := BollingerBands{
		Upper:  make([]float64, length),
		Middle: make([]float64, length),
		Lower:  make([]float64, length),
	}
	if period < 1 || length < period {
		return bands
	}

	for i := period - 1; i < length; i++ {
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += closes[i-j]
		}
		ma := sum / float64(period)

		variance := 0.0
		for j := 0; j < period; j++ {
			d := closes[i-j] - ma
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))

		bands.Middle[i] = ma
		bands.Upper[i] = ma + multiplier*sd
		bands.Lower[i] = ma - multiplier*sd
	}

	return bands
}
