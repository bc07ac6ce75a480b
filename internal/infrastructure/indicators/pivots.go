package indicators

// Pivot is a local extremum in a price column.
type Pivot struct {
	Index int
	Price float64
}

// FindSwingLows identifies strict pivot lows: bars whose low is below the
// lows of leftBars neighbours on one side and rightBars on the other. With
// leftBars = rightBars = 2 this is the classic 5-bar swing low. The check is
// symmetric, so the window may be ordered either newest-first or oldest-first.
// Fewer than leftBars+rightBars+1 values yields an empty result, never an
// error.
func FindSwingLows(lows []float64, leftBars, rightBars int) []Pivot {
	var pivots []Pivot
	length := len(lows)

	for i := leftBars; i < length-rightBars; i++ {
		candidate := lows[i]
		isPivot := true

		for j := 1; j <= leftBars; j++ {
			if lows[i-j] <= candidate {
				isPivot = false
				break
			}
		}
		if isPivot {
			for j := 1; j <= rightBars; j++ {
				if lows[i+j] <= candidate {
					isPivot = false
					break
				}
			}
		}

		if isPivot {
			pivots = append(pivots, Pivot{Index: i, Price: candidate})
		}
	}

	return pivots
}

// FindSwingHighs identifies strict pivot highs, the mirror of FindSwingLows.
func FindSwingHighs(highs []float64, leftBars, rightBars int) []Pivot {
	var pivots []Pivot
	length := len(highs)

	for i := leftBars; i < length-rightBars; i++ {
		candidate := highs[i]
		isPivot := true

		for j := 1; j <= leftBars; j++ {
			if highs[i-j] >= candidate {
				isPivot = false
				break
			}
		}
		if isPivot {
			for j := 1; j <= rightBars; j++ {
				if highs[i+j] >= candidate {
					isPivot = false
					break
				}
			}
		}

		if isPivot {
			pivots = append(pivots, Pivot{Index: i, Price: candidate})
		}
	}

	return pivots
}
