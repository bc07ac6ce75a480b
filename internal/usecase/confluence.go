package usecase

import "signals-backend/internal/domain"

// FindConfluence tests a just-entered support/resistance zone against the
// current demand/supply candidates. Confluence exists when the interval
// intersection is strictly positive. Degenerate candidates (zero height or
// inverted bounds) and already-consumed candidates are skipped; the guard
// protects the overlap arithmetic and keeps one-shot semantics.
//
// Returns the index of the first matching candidate.
func FindConfluence(zone domain.PriceZone, candidates []domain.PriceZone) (int, bool) {
	for i := range candidates {
		c := candidates[i]
		if !c.Active || c.Height() <= 0 {
			continue
		}
		if zone.Overlap(c) > 0 {
			return i, true
		}
	}
	return -1, false
}

// ConsumeZone flags a candidate inactive so it cannot back a second signal
// within the same scan cycle.
func ConsumeZone(candidates []domain.PriceZone, idx int) {
	if idx >= 0 && idx < len(candidates) {
		candidates[idx].Active = false
	}
}
