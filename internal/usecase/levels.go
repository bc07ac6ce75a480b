package usecase

import (
	"sort"

	"signals-backend/internal/domain"
	"signals-backend/internal/infrastructure/indicators"
)

// swingWing is the number of bars on each side of a pivot (5-bar swings).
const swingWing = 2

func findLows(series domain.BarSeries) []indicators.Pivot {
	return indicators.FindSwingLows(series.Lows(), swingWing, swingWing)
}

func findHighs(series domain.BarSeries) []indicators.Pivot {
	return indicators.FindSwingHighs(series.Highs(), swingWing, swingWing)
}

// ClusterLevels merges swing touches of one side into non-overlapping price
// zones. Two distance parameters drive it: tolerance coalesces raw touches
// into areas of interest, mergeDistance fuses neighbouring distinct levels
// into a single zone band.
//
// The result is deterministic: it depends only on the sorted levels and the
// two distances, so re-running on the same touches yields the same zones.
// An empty or too-small touch set produces no zones, never an error.
func ClusterLevels(touches []domain.SwingTouch, tolerance, mergeDistance float64, kind domain.ZoneKind) []domain.PriceZone {
	if len(touches) == 0 {
		return nil
	}

	// 1. Coalesce touches into areas of interest. A touch within tolerance
	// of an existing area reinforces it; otherwise it seeds a new one.
	var areas []domain.AreaOfInterest
	for _, t := range touches {
		merged := false
		for i := range areas {
			if absDiff(t.Level, areas[i].Level) <= tolerance {
				areas[i].BounceCount++
				if t.Time.After(areas[i].LastTouch) {
					areas[i].LastTouch = t.Time
				}
				if t.Time.Before(areas[i].FirstTouch) {
					areas[i].FirstTouch = t.Time
				}
				merged = true
				break
			}
		}
		if !merged {
			areas = append(areas, domain.AreaOfInterest{
				Level:       t.Level,
				IsSupport:   t.IsSupport,
				FirstTouch:  t.Time,
				LastTouch:   t.Time,
				BounceCount: 1,
			})
		}
	}

	// 2. Sort distinct levels ascending.
	sort.Slice(areas, func(i, j int) bool { return areas[i].Level < areas[j].Level })

	// 3. Sweep left to right, extending the open zone while the next level
	// stays within mergeDistance of its upper bound.
	var zones []domain.PriceZone
	current := zoneFromArea(areas[0], kind)
	for _, a := range areas[1:] {
		if a.Level-current.Upper <= mergeDistance {
			current.Upper = a.Level
			if a.FirstTouch.Before(current.StartTime) {
				current.StartTime = a.FirstTouch
			}
			if a.LastTouch.After(current.EndTime) {
				current.EndTime = a.LastTouch
			}
			continue
		}
		zones = append(zones, current)
		current = zoneFromArea(a, kind)
	}
	zones = append(zones, current)

	return zones
}

func zoneFromArea(a domain.AreaOfInterest, kind domain.ZoneKind) domain.PriceZone {
	return domain.PriceZone{
		Upper:     a.Level,
		Lower:     a.Level,
		StartTime: a.FirstTouch,
		EndTime:   a.LastTouch,
		Kind:      kind,
		Active:    true,
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// SwingTouches extracts 5-bar swing highs and lows from the window as level
// touches for the clusterer. Fewer than five bars yields an empty list.
func SwingTouches(series domain.BarSeries) (supports, resistances []domain.SwingTouch) {
	if series.Len() < 5 {
		return nil, nil
	}

	for _, p := range findLows(series) {
		supports = append(supports, domain.SwingTouch{
			Level:     p.Price,
			Time:      series[p.Index].OpenTime,
			IsSupport: true,
		})
	}
	for _, p := range findHighs(series) {
		resistances = append(resistances, domain.SwingTouch{
			Level:     p.Price,
			Time:      series[p.Index].OpenTime,
			IsSupport: false,
		})
	}
	return supports, resistances
}
