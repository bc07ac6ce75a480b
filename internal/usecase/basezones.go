package usecase

import (
	"signals-backend/internal/domain"
)

// BaseZoneConfig tunes the impulse/base/impulse motif scan.
type BaseZoneConfig struct {
	ImpulseFactor  float64 // impulse body >= factor * window average body
	MinBaseCandles int     // classic defaults: 2
	MaxBaseCandles int     // and 5
}

// DefaultBaseZoneConfig returns the classic 2-5 candle base with a 1.5x
// impulse threshold.
func DefaultBaseZoneConfig() BaseZoneConfig {
	return BaseZoneConfig{ImpulseFactor: 1.5, MinBaseCandles: 2, MaxBaseCandles: 5}
}

// motifSpec is one of the four directional impulse/base/impulse combinations.
// leadingUp/trailingUp describe the impulses in chronological order.
type motifSpec struct {
	leadingUp  bool
	trailingUp bool
	kind       domain.ZoneKind
}

// The four classic patterns: rally-base-rally and drop-base-rally leave
// demand behind the base; drop-base-drop and rally-base-drop leave supply.
var motifSpecs = []motifSpec{
	{leadingUp: true, trailingUp: true, kind: domain.ZoneDemand},   // RBR
	{leadingUp: false, trailingUp: true, kind: domain.ZoneDemand},  // DBR
	{leadingUp: false, trailingUp: false, kind: domain.ZoneSupply}, // DBD
	{leadingUp: true, trailingUp: false, kind: domain.ZoneSupply},  // RBD
}

// DetectBaseZones scans the window for the four impulse/base/impulse motifs
// and returns demand/supply zones anchored to the base candles. The four
// scans run independently over the same window and may emit overlapping
// zones; the confluence stage tolerates that. Purely a function of the OHLC
// window and the config. Too few bars produces no zones.
func DetectBaseZones(series domain.BarSeries, cfg BaseZoneConfig) (demand, supply []domain.PriceZone) {
	// Smallest motif: impulse + min base + impulse.
	if series.Len() < cfg.MinBaseCandles+2 {
		return nil, nil
	}

	// Average body is computed once per scan from the full window.
	avgBody := series.AverageBody()
	if avgBody <= 0 {
		return nil, nil
	}

	for _, spec := range motifSpecs {
		for _, z := range scanMotif(series, avgBody, spec, cfg) {
			if spec.kind == domain.ZoneDemand {
				demand = append(demand, z)
			} else {
				supply = append(supply, z)
			}
		}
	}
	return demand, supply
}

// scanMotif walks the window looking for one directional combination.
// The series is newest-first, so chronological order runs from high indices
// to low: the leading impulse sits at an older (higher) index than the base,
// the trailing impulse at a newer (lower) one.
func scanMotif(series domain.BarSeries, avgBody float64, spec motifSpec, cfg BaseZoneConfig) []domain.PriceZone {
	var zones []domain.PriceZone
	n := series.Len()

	for lead := n - 1; lead >= cfg.MinBaseCandles+1; lead-- {
		if !isImpulse(series[lead], avgBody, cfg.ImpulseFactor, spec.leadingUp) {
			continue
		}

		// Count small-bodied base candles directly after the impulse.
		baseLen := 0
		i := lead - 1
		for i >= 1 && baseLen < cfg.MaxBaseCandles && series[i].Body() < avgBody {
			baseLen++
			i--
		}
		if baseLen < cfg.MinBaseCandles {
			continue
		}

		// The candle after the base must be the trailing impulse.
		if !isImpulse(series[i], avgBody, cfg.ImpulseFactor, spec.trailingUp) {
			continue
		}

		// Zone bounds are the union of high/low across only the base
		// candles, not the impulses.
		upper := series[lead-1].High
		lower := series[lead-1].Low
		for j := lead - 1; j > i; j-- {
			if series[j].High > upper {
				upper = series[j].High
			}
			if series[j].Low < lower {
				lower = series[j].Low
			}
		}

		zones = append(zones, domain.PriceZone{
			Upper:     upper,
			Lower:     lower,
			StartTime: series[lead-1].OpenTime,
			EndTime:   series[i+1].OpenTime,
			Kind:      spec.kind,
			Active:    true,
		})
	}

	return zones
}

func isImpulse(b domain.Bar, avgBody, factor float64, up bool) bool {
	if b.Body() < factor*avgBody {
		return false
	}
	if up {
		return b.IsBull()
	}
	return b.IsBear()
}
