package usecase

import (
	"testing"

	"signals-backend/internal/domain"
)

func TestClusterLevelsCoalescesAndMerges(t *testing.T) {
	touches := []domain.SwingTouch{
		touch(100.0, 0, true),
		touch(100.3, 5, true),
		touch(105.0, 2, true),
		touch(105.2, 8, true),
		touch(120.0, 4, true),
	}

	zones := ClusterLevels(touches, 0.5, 6.0, domain.ZoneSupport)
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d: %+v", len(zones), zones)
	}

	// 100.0/100.3 coalesce, 105.0/105.2 coalesce, then the two levels merge
	// into one band because 105 - 100 <= mergeDistance.
	if zones[0].Lower != 100.0 || zones[0].Upper != 105.0 {
		t.Errorf("first zone = [%.1f, %.1f], want [100.0, 105.0]", zones[0].Lower, zones[0].Upper)
	}
	if zones[1].Lower != 120.0 || zones[1].Upper != 120.0 {
		t.Errorf("second zone = [%.1f, %.1f], want [120.0, 120.0]", zones[1].Lower, zones[1].Upper)
	}
	for _, z := range zones {
		if !z.Active || z.Kind != domain.ZoneSupport {
			t.Errorf("zone should be an active support zone: %+v", z)
		}
	}
}

func TestClusterLevelsSmallMergeDistanceKeepsLevelsApart(t *testing.T) {
	touches := []domain.SwingTouch{
		touch(100.0, 0, true),
		touch(105.0, 1, true),
		touch(120.0, 2, true),
	}

	zones := ClusterLevels(touches, 0.5, 2.0, domain.ZoneSupport)
	if len(zones) != 3 {
		t.Fatalf("expected 3 distinct zones, got %d: %+v", len(zones), zones)
	}
}

func TestClusterLevelsZonesDoNotOverlap(t *testing.T) {
	touches := []domain.SwingTouch{
		touch(100, 0, true), touch(101, 1, true), touch(103, 2, true),
		touch(110, 3, true), touch(111, 4, true), touch(118, 5, true),
	}

	zones := ClusterLevels(touches, 0.5, 3.0, domain.ZoneSupport)
	for i := 1; i < len(zones); i++ {
		if zones[i].Lower <= zones[i-1].Upper {
			t.Errorf("zones %d and %d overlap: %+v %+v", i-1, i, zones[i-1], zones[i])
		}
	}
}

func TestClusterLevelsDeterministic(t *testing.T) {
	touches := []domain.SwingTouch{
		touch(50, 0, true), touch(50.2, 1, true), touch(55, 2, true), touch(70, 3, true),
	}

	first := ClusterLevels(touches, 0.5, 6.0, domain.ZoneSupport)
	second := ClusterLevels(touches, 0.5, 6.0, domain.ZoneSupport)

	if len(first) != len(second) {
		t.Fatalf("re-run changed zone count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("zone %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestClusterLevelsEmptyInput(t *testing.T) {
	if zones := ClusterLevels(nil, 0.5, 2.0, domain.ZoneSupport); zones != nil {
		t.Errorf("no touches should yield no zones, got %+v", zones)
	}
}

func TestSwingTouches(t *testing.T) {
	// Chronological lows: 105, 104, 101, 104, 105, 106, 107. The minimum at
	// offset 2 is a 5-bar swing low. Highs stay flat-ish with one peak.
	bars := []domain.Bar{
		candle(106, 110, 105, 107, 0),
		candle(105, 109, 104, 106, 1),
		candle(102, 108, 101, 103, 2),
		candle(105, 112, 104, 106, 3),
		candle(106, 111, 105, 107, 4),
		candle(107, 110, 106, 108, 5),
		candle(108, 109, 107, 108.5, 6),
	}
	series := seriesFromChronological(bars)

	supports, resistances := SwingTouches(series)

	if len(supports) != 1 {
		t.Fatalf("expected 1 support touch, got %d: %+v", len(supports), supports)
	}
	if supports[0].Level != 101 {
		t.Errorf("support level = %.1f, want 101", supports[0].Level)
	}
	if !supports[0].IsSupport {
		t.Error("support touch should be flagged IsSupport")
	}

	if len(resistances) != 1 {
		t.Fatalf("expected 1 resistance touch, got %d: %+v", len(resistances), resistances)
	}
	if resistances[0].Level != 112 {
		t.Errorf("resistance level = %.1f, want 112", resistances[0].Level)
	}
}

func TestSwingTouchesTooFewBars(t *testing.T) {
	bars := []domain.Bar{
		candle(100, 101, 99, 100, 0),
		candle(100, 101, 99, 100, 1),
		candle(100, 101, 99, 100, 2),
		candle(100, 101, 99, 100, 3),
	}

	supports, resistances := SwingTouches(seriesFromChronological(bars))
	if supports != nil || resistances != nil {
		t.Errorf("fewer than 5 bars should yield no touches, got %v / %v", supports, resistances)
	}
}
