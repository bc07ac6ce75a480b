package indicators

import "testing"

func TestHasDescendingMomentum(t *testing.T) {
	// Newest first: 100 now, prior closes 104, 106, 108. Midpoint 101.
	closes := []float64{100, 104, 106, 108, 110}

	if !HasDescendingMomentum(closes, 3, 101) {
		t.Error("monotonic descent into support should pass the gate")
	}

	// One prior close below the midpoint breaks the descent.
	if HasDescendingMomentum([]float64{100, 104, 100.5, 108}, 3, 101) {
		t.Error("close below midpoint should fail the gate")
	}

	// A prior close at or below the current close means price is not
	// approaching from above.
	if HasDescendingMomentum([]float64{100, 104, 99, 108}, 3, 90) {
		t.Error("prior close below current should fail the gate")
	}
	if HasDescendingMomentum([]float64{100, 100, 106, 108}, 3, 90) {
		t.Error("equal prior close should fail the gate")
	}
}

func TestHasAscendingMomentum(t *testing.T) {
	closes := []float64{100, 96, 94, 92, 90}

	if !HasAscendingMomentum(closes, 3, 99) {
		t.Error("monotonic ascent into resistance should pass the gate")
	}
	if HasAscendingMomentum([]float64{100, 96, 99.5, 92}, 3, 99) {
		t.Error("close above midpoint should fail the gate")
	}
	if HasAscendingMomentum([]float64{100, 101, 94, 92}, 3, 110) {
		t.Error("prior close above current should fail the gate")
	}
}

func TestMomentumWindowTooSmall(t *testing.T) {
	closes := []float64{100, 104, 106}

	if HasDescendingMomentum(closes, 3, 101) {
		t.Error("3 closes cannot satisfy a 3-candle gate (needs 4)")
	}
	if HasAscendingMomentum(closes, 3, 101) {
		t.Error("3 closes cannot satisfy a 3-candle gate (needs 4)")
	}
	if HasDescendingMomentum(closes, 0, 101) {
		t.Error("zero candles should never pass")
	}
}
