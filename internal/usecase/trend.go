package usecase

import (
	"time"

	"signals-backend/internal/domain"
	"signals-backend/internal/infrastructure/indicators"
)

// EMABandFilter derives a directional bias from an EMA pair plus the
// Bollinger middle band: bullish when the fast EMA rides above the slow one
// with price above the band mid, bearish on the mirror. Anything else is "no
// opinion", so callers treat it as neutral rather than a veto.
type EMABandFilter struct {
	provider       domain.MarketDataProvider
	timeframe      string
	window         int
	fastPeriod     int
	slowPeriod     int
	bandPeriod     int
	bandMultiplier float64
}

func NewEMABandFilter(provider domain.MarketDataProvider, timeframe string) *EMABandFilter {
	return &EMABandFilter{
		provider:       provider,
		timeframe:      timeframe,
		window:         120,
		fastPeriod:     20,
		slowPeriod:     50,
		bandPeriod:     20,
		bandMultiplier: 2.0,
	}
}

func (f *EMABandFilter) Bias(symbol string) (domain.Direction, bool) {
	series, err := f.provider.Bars(symbol, f.timeframe, f.window)
	if err != nil || series.Len() < f.slowPeriod {
		return "", false
	}

	closes := series.ClosesChronological()
	fast := indicators.CalculateEMA(closes, f.fastPeriod)
	slow := indicators.CalculateEMA(closes, f.slowPeriod)
	bands := indicators.CalculateBollingerBands(closes, f.bandPeriod, f.bandMultiplier)

	idx := len(closes) - 1
	price := closes[idx]

	if fast[idx] > slow[idx] && price > bands.Middle[idx] {
		return domain.DirectionLong, true
	}
	if fast[idx] < slow[idx] && price < bands.Middle[idx] {
		return domain.DirectionShort, true
	}
	return "", false
}

// SessionFilter blacks out a daily UTC hour window (news blackout, session
// restriction). Start == End disables the filter. Windows may wrap midnight.
type SessionFilter struct {
	StartHour int
	EndHour   int
}

func (f SessionFilter) IsBlackout(t time.Time) bool {
	if f.StartHour == f.EndHour {
		return false
	}
	h := t.UTC().Hour()
	if f.StartHour < f.EndHour {
		return h >= f.StartHour && h < f.EndHour
	}
	return h >= f.StartHour || h < f.EndHour
}
