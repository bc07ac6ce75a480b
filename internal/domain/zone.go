package domain

import "time"

// ZoneKind classifies a price zone by the detector that produced it.
type ZoneKind string

const (
	ZoneSupport    ZoneKind = "SUPPORT"
	ZoneResistance ZoneKind = "RESISTANCE"
	ZoneDemand     ZoneKind = "DEMAND"
	ZoneSupply     ZoneKind = "SUPPLY"
)

// PriceZone is a horizontal price band produced by a structure detector.
// Zone sets are fully rebuilt on every scan, so a zone's identity is local to
// one scan cycle; anything that must survive a rebuild stores the bounds by
// value (see PendingSignal).
type PriceZone struct {
	Upper     float64   `json:"upper"`
	Lower     float64   `json:"lower"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Kind      ZoneKind  `json:"kind"`
	Active    bool      `json:"active"`
}

// Mid returns the zone midpoint.
func (z PriceZone) Mid() float64 { return (z.Upper + z.Lower) / 2 }

// Height returns the zone height. Negative means inverted bounds.
func (z PriceZone) Height() float64 { return z.Upper - z.Lower }

// Contains reports whether price lies inside the zone, bounds inclusive.
func (z PriceZone) Contains(price float64) bool {
	return price >= z.Lower && price <= z.Upper
}

// Overlap returns the size of the intersection with other. A value <= 0
// means the zones do not overlap.
func (z PriceZone) Overlap(other PriceZone) float64 {
	upper := z.Upper
	if other.Upper < upper {
		upper = other.Upper
	}
	lower := z.Lower
	if other.Lower > lower {
		lower = other.Lower
	}
	return upper - lower
}

// SwingTouch is a single pivot-derived level touch, the raw input to the
// level clusterer.
type SwingTouch struct {
	Level     float64   `json:"level"`
	Time      time.Time `json:"time"`
	IsSupport bool      `json:"isSupport"`
}

// AreaOfInterest accumulates nearby touches before zone merging. It only
// lives inside the clusterer and is discarded once zones are produced.
type AreaOfInterest struct {
	Level       float64
	IsSupport   bool
	FirstTouch  time.Time
	LastTouch   time.Time
	BounceCount int
}
