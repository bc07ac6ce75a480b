package domain

import "time"

// Bar is a single closed OHLCV candle. Bars are immutable once produced.
type Bar struct {
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
	OpenTime time.Time `json:"openTime"`
}

// Body returns the absolute candle body size.
func (b Bar) Body() float64 {
	if b.Close >= b.Open {
		return b.Close - b.Open
	}
	return b.Open - b.Close
}

// IsBull reports whether the bar closed above its open.
func (b Bar) IsBull() bool { return b.Close > b.Open }

// IsBear reports whether the bar closed below its open.
func (b Bar) IsBear() bool { return b.Open > b.Close }

// UpperWick returns the distance from the body top to the high.
func (b Bar) UpperWick() float64 {
	top := b.Open
	if b.Close > top {
		top = b.Close
	}
	return b.High - top
}

// LowerWick returns the distance from the body bottom to the low.
func (b Bar) LowerWick() float64 {
	bottom := b.Open
	if b.Close < bottom {
		bottom = b.Close
	}
	return bottom - b.Low
}

// BarSeries is a time-ordered window of closed bars for one symbol/timeframe.
// Index 0 is the most recently closed bar; higher indices are older. The
// forming bar is never part of a series.
type BarSeries []Bar

func (s BarSeries) Len() int { return len(s) }

// Highs returns the high column, newest first.
func (s BarSeries) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

// Lows returns the low column, newest first.
func (s BarSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Closes returns the close column, newest first.
func (s BarSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Opens returns the open column, newest first.
func (s BarSeries) Opens() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Open
	}
	return out
}

// ClosesChronological returns the close column oldest first, for indicator
// functions that smooth forward in time.
func (s BarSeries) ClosesChronological() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[len(s)-1-i] = b.Close
	}
	return out
}

// Reversed returns a chronological (oldest-first) copy of the series.
func (s BarSeries) Reversed() BarSeries {
	out := make(BarSeries, len(s))
	for i, b := range s {
		out[len(s)-1-i] = b
	}
	return out
}

// AverageBody returns the mean candle body over the whole window.
// Zero when the series is empty.
func (s BarSeries) AverageBody() float64 {
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range s {
		sum += b.Body()
	}
	return sum / float64(len(s))
}
