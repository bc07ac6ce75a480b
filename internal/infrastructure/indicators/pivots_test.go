package indicators

import "testing"

func TestFindSwingLows(t *testing.T) {
	lows := []float64{5, 4, 1, 4, 5, 3, 2, 3, 4}

	pivots := FindSwingLows(lows, 2, 2)
	if len(pivots) != 2 {
		t.Fatalf("expected 2 swing lows, got %d: %+v", len(pivots), pivots)
	}
	if pivots[0].Index != 2 || pivots[0].Price != 1 {
		t.Errorf("first pivot = %+v, want index 2 price 1", pivots[0])
	}
	if pivots[1].Index != 6 || pivots[1].Price != 2 {
		t.Errorf("second pivot = %+v, want index 6 price 2", pivots[1])
	}
}

func TestFindSwingHighs(t *testing.T) {
	highs := []float64{1, 2, 9, 2, 1, 3, 7, 3, 1}

	pivots := FindSwingHighs(highs, 2, 2)
	if len(pivots) != 2 {
		t.Fatalf("expected 2 swing highs, got %d: %+v", len(pivots), pivots)
	}
	if pivots[0].Index != 2 || pivots[0].Price != 9 {
		t.Errorf("first pivot = %+v, want index 2 price 9", pivots[0])
	}
	if pivots[1].Index != 6 || pivots[1].Price != 7 {
		t.Errorf("second pivot = %+v, want index 6 price 7", pivots[1])
	}
}

func TestSwingPivotsRejectTies(t *testing.T) {
	// An equal neighbour disqualifies a candidate: the comparison is strict.
	lows := []float64{5, 4, 1, 1, 4, 5, 5}
	if pivots := FindSwingLows(lows, 2, 2); len(pivots) != 0 {
		t.Errorf("tied lows should produce no pivots, got %+v", pivots)
	}

	highs := []float64{1, 2, 9, 9, 2, 1, 1}
	if pivots := FindSwingHighs(highs, 2, 2); len(pivots) != 0 {
		t.Errorf("tied highs should produce no pivots, got %+v", pivots)
	}
}

func TestSwingPivotsShortWindow(t *testing.T) {
	if pivots := FindSwingLows([]float64{3, 1, 3, 4}, 2, 2); pivots != nil {
		t.Errorf("4 values cannot contain a 5-bar pivot, got %+v", pivots)
	}
	if pivots := FindSwingLows(nil, 2, 2); pivots != nil {
		t.Errorf("empty input should yield nil, got %+v", pivots)
	}
}

func TestSwingPivotsEdgesExcluded(t *testing.T) {
	// The global minimum sits at index 1, inside the left wing: not a pivot.
	lows := []float64{5, 1, 4, 5, 6, 7, 8}
	for _, p := range FindSwingLows(lows, 2, 2) {
		if p.Index < 2 || p.Index > len(lows)-3 {
			t.Errorf("pivot at excluded edge index %d", p.Index)
		}
	}
}
