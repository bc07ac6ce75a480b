package usecase

import (
	"time"

	"signals-backend/internal/domain"
)

// Confirmation detector states.
const (
	ConfirmIdle     = "IDLE"
	ConfirmAwaiting = "AWAITING_CONFIRMATION"
)

// ConfirmationOutcome is the result of one lower-timeframe evaluation.
type ConfirmationOutcome string

const (
	OutcomePending   ConfirmationOutcome = "PENDING"
	OutcomeCancelled ConfirmationOutcome = "CANCELLED"
	OutcomeExpired   ConfirmationOutcome = "EXPIRED"
	OutcomeConfirmed ConfirmationOutcome = "CONFIRMED"
)

// ConfirmationConfig tunes the lower-timeframe confirmation stage.
type ConfirmationConfig struct {
	MinCandles     int     // consecutive directional candles for the sequence pattern
	MaxCandles     int     // pending lifetime in lower-timeframe bars
	UseSequence    bool
	UseEngulfing   bool
	UsePinBar      bool
	RewardMultiple float64 // target distance as a multiple of stop distance
}

// DefaultConfirmationConfig enables all three patterns with a 2R target.
func DefaultConfirmationConfig() ConfirmationConfig {
	return ConfirmationConfig{
		MinCandles:     3,
		MaxCandles:     12,
		UseSequence:    true,
		UseEngulfing:   true,
		UsePinBar:      true,
		RewardMultiple: 2.0,
	}
}

// PendingSignal remembers a candidate zone between scans. Zone sets are
// rebuilt on every scan, so the bounds are stored by value, never as an
// index into a future zone slice.
type PendingSignal struct {
	Symbol          string    `json:"symbol"`
	ZoneUpper       float64   `json:"zoneUpper"`
	ZoneLower       float64   `json:"zoneLower"`
	IsSupportSide   bool      `json:"isSupportSide"`
	ConfluenceUpper float64   `json:"confluenceUpper"`
	ConfluenceLower float64   `json:"confluenceLower"`
	StopBuffer      float64   `json:"stopBuffer"` // fixed when the signal is armed
	CreatedAt       time.Time `json:"createdAt"`
	BarsWaited      int       `json:"barsWaited"`
}

// Confirmation carries the priced outcome of a confirmed signal.
type Confirmation struct {
	Entry   float64
	Stop    float64
	Target  float64
	Pattern string // SEQUENCE, ENGULFING or PIN_BAR
}

// ConfirmationDetector watches the lower timeframe while price sits inside a
// pending zone. One instance per tracked (symbol, timeframe) pair.
type ConfirmationDetector struct {
	cfg   ConfirmationConfig
	state string
}

func NewConfirmationDetector(cfg ConfirmationConfig) *ConfirmationDetector {
	return &ConfirmationDetector{cfg: cfg, state: ConfirmIdle}
}

// State returns the current detector state.
func (d *ConfirmationDetector) State() string { return d.state }

// Arm moves the detector to AwaitingConfirmation for a freshly accepted
// pending signal.
func (d *ConfirmationDetector) Arm() { d.state = ConfirmAwaiting }

// Reset returns the detector to Idle, discarding any pending evaluation.
func (d *ConfirmationDetector) Reset() { d.state = ConfirmIdle }

// Evaluate processes one new lower-timeframe bar close for the pending
// signal. ltf is newest-first. An empty window reports Pending ("not
// confirmed yet"), never an error; the signal survives until its bar budget
// is spent.
func (d *ConfirmationDetector) Evaluate(ps *PendingSignal, ltf domain.BarSeries) (ConfirmationOutcome, *Confirmation) {
	if d.state != ConfirmAwaiting || ps == nil {
		return OutcomePending, nil
	}
	if ltf.Len() == 0 {
		return OutcomePending, nil
	}

	current := ltf[0].Close

	// Price left the zone on the adverse side: discard the signal.
	if ps.IsSupportSide && current < ps.ZoneLower {
		d.state = ConfirmIdle
		return OutcomeCancelled, nil
	}
	if !ps.IsSupportSide && current > ps.ZoneUpper {
		d.state = ConfirmIdle
		return OutcomeCancelled, nil
	}

	ps.BarsWaited++

	// Ordered short-circuit: sequence, then engulfing, then pin bar.
	pattern := ""
	switch {
	case d.cfg.UseSequence && matchDirectionalRun(ltf, ps.IsSupportSide, d.cfg.MinCandles):
		pattern = "SEQUENCE"
	case d.cfg.UseEngulfing && matchEngulfing(ltf, ps.IsSupportSide):
		pattern = "ENGULFING"
	case d.cfg.UsePinBar && matchPinBar(ltf[0], ps.IsSupportSide):
		pattern = "PIN_BAR"
	}

	if pattern == "" {
		if ps.BarsWaited >= d.cfg.MaxCandles {
			d.state = ConfirmIdle
			return OutcomeExpired, nil
		}
		return OutcomePending, nil
	}

	d.state = ConfirmIdle
	return OutcomeConfirmed, d.price(ps, current, pattern)
}

func (d *ConfirmationDetector) price(ps *PendingSignal, entry float64, pattern string) *Confirmation {
	var stop float64
	if ps.IsSupportSide {
		stop = ps.ZoneLower - ps.StopBuffer
	} else {
		stop = ps.ZoneUpper + ps.StopBuffer
	}

	risk := entry - stop
	if risk < 0 {
		risk = -risk
	}

	target := entry + d.cfg.RewardMultiple*risk
	if !ps.IsSupportSide {
		target = entry - d.cfg.RewardMultiple*risk
	}

	return &Confirmation{Entry: entry, Stop: stop, Target: target, Pattern: pattern}
}

// matchDirectionalRun checks for minCandles consecutive candles in the
// signal direction, counted back from the newest close.
func matchDirectionalRun(ltf domain.BarSeries, bullish bool, minCandles int) bool {
	if minCandles < 1 || ltf.Len() < minCandles {
		return false
	}
	for i := 0; i < minCandles; i++ {
		if bullish && !ltf[i].IsBull() {
			return false
		}
		if !bullish && !ltf[i].IsBear() {
			return false
		}
	}
	return true
}

// matchEngulfing checks whether the newest candle's body fully contains and
// reverses the prior candle's body.
func matchEngulfing(ltf domain.BarSeries, bullish bool) bool {
	if ltf.Len() < 2 {
		return false
	}
	cur, prev := ltf[0], ltf[1]
	if bullish {
		return cur.IsBull() && prev.IsBear() &&
			cur.Close > prev.Open && cur.Open < prev.Close
	}
	return cur.IsBear() && prev.IsBull() &&
		cur.Open > prev.Close && cur.Close < prev.Open
}

// matchPinBar checks for a rejection candle: one wick at least twice the
// body and dominant over the opposite wick.
func matchPinBar(b domain.Bar, bullish bool) bool {
	body := b.Body()
	upper := b.UpperWick()
	lower := b.LowerWick()
	if bullish {
		return lower >= 2*body && lower > upper
	}
	return upper >= 2*body && upper > lower
}
