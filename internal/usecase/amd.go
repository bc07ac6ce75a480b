package usecase

import (
	"time"

	"signals-backend/internal/domain"
)

// AMD (Accumulation, Manipulation, Distribution) states. The machine is
// strictly forward-only within one anchor period; only a new anchor bar
// resets it.
type AMDState string

const (
	AMDWaitAccumulation AMDState = "WAIT_ACCUMULATION"
	AMDWaitManipulation AMDState = "WAIT_MANIPULATION"
	AMDWaitEntry        AMDState = "WAIT_ENTRY"
	AMDDone             AMDState = "DONE"
)

// AccumSide is the side of the anchor open price held during accumulation.
type AccumSide string

const (
	SideNone  AccumSide = "NONE"
	SideAbove AccumSide = "ABOVE"
	SideBelow AccumSide = "BELOW"
)

// AMDConfig tunes stop placement and target for the breakout entry.
type AMDConfig struct {
	StopBuffer     float64 // price buffer beyond the manipulation extreme
	RewardMultiple float64 // target distance as a multiple of stop distance
}

// DefaultAMDConfig targets 2R.
func DefaultAMDConfig() AMDConfig {
	return AMDConfig{RewardMultiple: 2.0}
}

// AMDSignal is the priced breakout produced when Distribution fires.
type AMDSignal struct {
	Direction domain.Direction
	Entry     float64
	Stop      float64
	Target    float64
}

// PO3Context tracks one anchor period through the AMD phases. One instance
// per (symbol, anchor period); mutated only on new-bar events and owned
// exclusively by the engine session driving it.
type PO3Context struct {
	State      AMDState  `json:"state"`
	AnchorOpen float64   `json:"anchorOpen"`
	AnchorTime time.Time `json:"anchorTime"`

	AccumSide  AccumSide `json:"accumSide"`
	AccumHigh  float64   `json:"accumHigh"`
	AccumLow   float64   `json:"accumLow"`
	AccumStart time.Time `json:"accumStart"`
	AccumEnd   time.Time `json:"accumEnd"`

	ManipHigh  float64   `json:"manipHigh"`
	ManipLow   float64   `json:"manipLow"`
	ManipStart time.Time `json:"manipStart"`
	ManipEnd   time.Time `json:"manipEnd"`

	Direction  domain.Direction `json:"direction,omitempty"`
	EntryPrice float64          `json:"entryPrice"`
	StopLoss   float64          `json:"stopLoss"`
	TakeProfit float64          `json:"takeProfit"`
	Valid      bool             `json:"valid"`

	cfg AMDConfig
}

func NewPO3Context(cfg AMDConfig) *PO3Context {
	return &PO3Context{State: AMDWaitAccumulation, AccumSide: SideNone, cfg: cfg}
}

// Reset re-initializes the context for a new anchor period. Called exactly
// when a new anchor bar opens.
func (c *PO3Context) Reset(anchorOpen float64, anchorTime time.Time) {
	cfg := c.cfg
	*c = PO3Context{
		State:      AMDWaitAccumulation,
		AccumSide:  SideNone,
		AnchorOpen: anchorOpen,
		AnchorTime: anchorTime,
		cfg:        cfg,
	}
}

// Veto closes the period without a trade: a trend or time filter rejected an
// otherwise valid setup. Normal control flow, not an error.
func (c *PO3Context) Veto() {
	c.State = AMDDone
	c.Valid = false
}

func (c *PO3Context) sideOf(close float64) AccumSide {
	switch {
	case close > c.AnchorOpen:
		return SideAbove
	case close < c.AnchorOpen:
		return SideBelow
	}
	return SideNone
}

// OnBar advances the machine with one newly closed bar of the anchor
// period. Returns a priced signal when the Distribution breakout fires;
// the caller applies trend/time gating before acting on it.
func (c *PO3Context) OnBar(bar domain.Bar) *AMDSignal {
	switch c.State {
	case AMDWaitAccumulation:
		c.onAccumulationBar(bar)
	case AMDWaitManipulation:
		c.onManipulationBar(bar)
	case AMDWaitEntry:
		return c.onEntryBar(bar)
	}
	return nil
}

func (c *PO3Context) onAccumulationBar(bar domain.Bar) {
	side := c.sideOf(bar.Close)
	if side == SideNone {
		return
	}

	if c.AccumSide == SideNone {
		c.AccumSide = side
		c.AccumHigh = bar.High
		c.AccumLow = bar.Low
		c.AccumStart = bar.OpenTime
		c.AccumEnd = bar.OpenTime
		return
	}

	if side == c.AccumSide {
		if bar.High > c.AccumHigh {
			c.AccumHigh = bar.High
		}
		if bar.Low < c.AccumLow {
			c.AccumLow = bar.Low
		}
		c.AccumEnd = bar.OpenTime
		return
	}

	// Close crossed the anchor open. A flip with zero full accumulation
	// bars behind it is noise, not manipulation.
	if !c.AccumEnd.After(c.AccumStart) {
		return
	}

	c.State = AMDWaitManipulation
	c.ManipHigh = bar.High
	c.ManipLow = bar.Low
	c.ManipStart = bar.OpenTime
	c.ManipEnd = bar.OpenTime
}

func (c *PO3Context) onManipulationBar(bar domain.Bar) {
	side := c.sideOf(bar.Close)
	if side == SideNone {
		return
	}

	if side != c.AccumSide {
		// Still on the manipulation side.
		if bar.High > c.ManipHigh {
			c.ManipHigh = bar.High
		}
		if bar.Low < c.ManipLow {
			c.ManipLow = bar.Low
		}
		c.ManipEnd = bar.OpenTime
		return
	}

	// Price returned to the accumulation side.
	if !c.ManipEnd.After(c.ManipStart) {
		// One-bar manipulation is too shallow: no levels, no trade this
		// period.
		c.State = AMDWaitEntry
		c.Valid = false
		return
	}

	// Stop sits beyond the manipulation extreme; entry is the breakout of
	// the accumulation extreme in the opposite direction.
	if c.AccumSide == SideAbove {
		c.Direction = domain.DirectionLong
		c.EntryPrice = c.AccumHigh
		c.StopLoss = c.ManipLow - c.cfg.StopBuffer
	} else {
		c.Direction = domain.DirectionShort
		c.EntryPrice = c.AccumLow
		c.StopLoss = c.ManipHigh + c.cfg.StopBuffer
	}

	risk := c.EntryPrice - c.StopLoss
	if risk < 0 {
		risk = -risk
	}
	if c.Direction == domain.DirectionLong {
		c.TakeProfit = c.EntryPrice + c.cfg.RewardMultiple*risk
	} else {
		c.TakeProfit = c.EntryPrice - c.cfg.RewardMultiple*risk
	}

	c.Valid = true
	c.State = AMDWaitEntry
}

func (c *PO3Context) onEntryBar(bar domain.Bar) *AMDSignal {
	if !c.Valid {
		return nil
	}

	// Breakout is tested against the accumulation extreme, not the
	// manipulation extreme.
	broke := false
	if c.Direction == domain.DirectionLong {
		broke = bar.Close > c.AccumHigh
	} else {
		broke = bar.Close < c.AccumLow
	}
	if !broke {
		return nil
	}

	c.State = AMDDone
	return &AMDSignal{
		Direction: c.Direction,
		Entry:     c.EntryPrice,
		Stop:      c.StopLoss,
		Target:    c.TakeProfit,
	}
}
