package usecase

import (
	"testing"

	"signals-backend/internal/domain"
)

func TestDetectBaseZonesRallyBaseRally(t *testing.T) {
	// Chronological: big bull impulse, two small base candles, big bull
	// impulse. Average body is (10+1+1+10)/4 = 5.5, so the impulses clear the
	// 1.5x threshold and the base candles sit below the average.
	bars := []domain.Bar{
		candle(100, 115, 99, 110, 0),     // leading rally
		candle(110, 112, 109, 111, 1),    // base
		candle(111, 113, 108, 110, 2),    // base
		candle(110, 125, 109.5, 120, 3),  // trailing rally
	}
	series := seriesFromChronological(bars)

	demand, supply := DetectBaseZones(series, DefaultBaseZoneConfig())

	if len(supply) != 0 {
		t.Fatalf("bull/bull motif should not emit supply, got %+v", supply)
	}
	if len(demand) != 1 {
		t.Fatalf("expected 1 demand zone, got %d: %+v", len(demand), demand)
	}

	// Bounds come from the base candles only, never the impulse extremes.
	z := demand[0]
	if z.Upper != 113 || z.Lower != 108 {
		t.Errorf("zone = [%.1f, %.1f], want [108.0, 113.0]", z.Lower, z.Upper)
	}
	if z.Kind != domain.ZoneDemand || !z.Active {
		t.Errorf("zone should be active demand: %+v", z)
	}
}

func TestDetectBaseZonesDropBaseDrop(t *testing.T) {
	bars := []domain.Bar{
		candle(120, 121, 105, 110, 0),   // leading drop
		candle(110, 112, 109, 111, 1),   // base
		candle(111, 113, 108, 110, 2),   // base
		candle(110, 111, 95, 100, 3),    // trailing drop
	}
	series := seriesFromChronological(bars)

	demand, supply := DetectBaseZones(series, DefaultBaseZoneConfig())

	if len(demand) != 0 {
		t.Fatalf("bear/bear motif should not emit demand, got %+v", demand)
	}
	if len(supply) != 1 {
		t.Fatalf("expected 1 supply zone, got %d: %+v", len(supply), supply)
	}
	if supply[0].Upper != 113 || supply[0].Lower != 108 {
		t.Errorf("zone = [%.1f, %.1f], want [108.0, 113.0]", supply[0].Lower, supply[0].Upper)
	}
}

func TestDetectBaseZonesDropBaseRallyIsDemand(t *testing.T) {
	bars := []domain.Bar{
		candle(120, 121, 105, 110, 0),   // leading drop
		candle(110, 112, 109, 111, 1),   // base
		candle(111, 113, 108, 110, 2),   // base
		candle(110, 125, 109.5, 120, 3), // trailing rally
	}
	series := seriesFromChronological(bars)

	demand, supply := DetectBaseZones(series, DefaultBaseZoneConfig())
	if len(demand) != 1 || len(supply) != 0 {
		t.Fatalf("DBR should emit exactly one demand zone, got demand=%d supply=%d", len(demand), len(supply))
	}
}

func TestDetectBaseZonesBaseTooShort(t *testing.T) {
	// Only one base candle between the impulses: below MinBaseCandles.
	bars := []domain.Bar{
		candle(100, 111, 99, 110, 0),    // impulse
		candle(110, 112, 109, 111, 1),   // lone base candle
		candle(111, 122, 110, 121, 2),   // impulse
		candle(121, 123, 120, 122, 3),   // filler
	}
	series := seriesFromChronological(bars)

	demand, supply := DetectBaseZones(series, DefaultBaseZoneConfig())
	if len(demand) != 0 || len(supply) != 0 {
		t.Errorf("single-candle base should not form a zone, got demand=%v supply=%v", demand, supply)
	}
}

func TestDetectBaseZonesTooFewBars(t *testing.T) {
	bars := []domain.Bar{
		candle(100, 111, 99, 110, 0),
		candle(110, 112, 109, 111, 1),
	}
	demand, supply := DetectBaseZones(seriesFromChronological(bars), DefaultBaseZoneConfig())
	if demand != nil || supply != nil {
		t.Errorf("window smaller than the minimal motif should yield nothing")
	}
}

func TestDetectBaseZonesFlatWindow(t *testing.T) {
	// All dojis: zero average body, nothing can qualify as an impulse.
	bars := []domain.Bar{
		candle(100, 101, 99, 100, 0),
		candle(100, 101, 99, 100, 1),
		candle(100, 101, 99, 100, 2),
		candle(100, 101, 99, 100, 3),
	}
	demand, supply := DetectBaseZones(seriesFromChronological(bars), DefaultBaseZoneConfig())
	if demand != nil || supply != nil {
		t.Errorf("flat window should yield nothing, got demand=%v supply=%v", demand, supply)
	}
}
