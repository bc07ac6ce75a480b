package indicators

// Momentum gates check that price is approaching a zone with directional
// conviction rather than already moving away from it. Both functions take
// closes newest-first (closes[0] = current closed bar) and are stateless.

// HasDescendingMomentum reports whether each of the `candles` closes before
// the current one sits above both the current close and the zone midpoint,
// a monotonic descent into a support zone (buy candidate).
// Requires candles+1 closes; fewer means no gate pass.
func HasDescendingMomentum(closes []float64, candles int, midpoint float64) bool {
	if candles < 1 || len(closes) < candles+1 {
		return false
	}
	current := closes[0]
	for i := 1; i <= candles; i++ {
		if closes[i] <= current || closes[i] <= midpoint {
			return false
		}
	}
	return true
}

// HasAscendingMomentum is the sell-side mirror: each prior close below both
// the current close and the zone midpoint, an ascent into resistance.
func HasAscendingMomentum(closes []float64, candles int, midpoint float64) bool {
	if candles < 1 || len(closes) < candles+1 {
		return false
	}
	current := closes[0]
	for i := 1; i <= candles; i++ {
		if closes[i] >= current || closes[i] >= midpoint {
			return false
		}
	}
	return true
}
