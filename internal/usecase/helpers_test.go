package usecase

import (
	"time"

	"signals-backend/internal/domain"
)

var testEpoch = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// candle builds one bar offset hours after the test epoch.
func candle(open, high, low, close float64, offset int) domain.Bar {
	return domain.Bar{
		Open:     open,
		High:     high,
		Low:      low,
		Close:    close,
		Volume:   1000,
		OpenTime: testEpoch.Add(time.Duration(offset) * time.Hour),
	}
}

// seriesFromChronological reverses chronological bars into the newest-first
// order the detectors expect.
func seriesFromChronological(bars []domain.Bar) domain.BarSeries {
	out := make(domain.BarSeries, len(bars))
	for i, b := range bars {
		out[len(bars)-1-i] = b
	}
	return out
}

func touch(level float64, offset int, isSupport bool) domain.SwingTouch {
	return domain.SwingTouch{
		Level:     level,
		Time:      testEpoch.Add(time.Duration(offset) * time.Hour),
		IsSupport: isSupport,
	}
}
