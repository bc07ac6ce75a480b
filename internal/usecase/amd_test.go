package usecase

import (
	"testing"
	"time"

	"signals-backend/internal/domain"
)

func newTestPO3() *PO3Context {
	c := NewPO3Context(AMDConfig{StopBuffer: 1, RewardMultiple: 2})
	c.Reset(100, testEpoch)
	return c
}

func TestPO3FullCycleLong(t *testing.T) {
	c := newTestPO3()

	// Accumulation above the anchor open.
	c.OnBar(candle(101, 106, 104, 105, 0))
	c.OnBar(candle(105, 108, 103, 107, 1))
	if c.State != AMDWaitAccumulation || c.AccumSide != SideAbove {
		t.Fatalf("state = %s side = %s, want accumulation above", c.State, c.AccumSide)
	}
	if c.AccumHigh != 108 || c.AccumLow != 103 {
		t.Fatalf("accumulation range = [%.1f, %.1f], want [103, 108]", c.AccumLow, c.AccumHigh)
	}

	// Manipulation: close crosses below the anchor open.
	c.OnBar(candle(104, 104, 95, 97, 2))
	if c.State != AMDWaitManipulation {
		t.Fatalf("state = %s, want manipulation", c.State)
	}
	c.OnBar(candle(97, 98, 93, 96, 3))
	if c.ManipLow != 93 {
		t.Fatalf("manipulation low = %.1f, want 93", c.ManipLow)
	}

	// Return to the accumulation side prices the setup.
	c.OnBar(candle(96, 107, 96, 106, 4))
	if c.State != AMDWaitEntry || !c.Valid {
		t.Fatalf("state = %s valid = %v, want a valid entry wait", c.State, c.Valid)
	}
	if c.Direction != domain.DirectionLong {
		t.Errorf("direction = %s, want LONG", c.Direction)
	}
	if c.EntryPrice != 108 {
		t.Errorf("entry = %.1f, want accumulation high 108", c.EntryPrice)
	}
	if c.StopLoss != 92 {
		t.Errorf("stop = %.1f, want manipulation low 93 minus buffer 1", c.StopLoss)
	}
	if c.TakeProfit != 140 {
		t.Errorf("target = %.1f, want 108 + 2 * 16", c.TakeProfit)
	}

	// A close back inside the range does not trigger.
	if sig := c.OnBar(candle(106, 107.5, 105, 107, 5)); sig != nil {
		t.Fatalf("close below the accumulation high must not trigger, got %+v", sig)
	}

	// Breakout close beyond the accumulation high fires the signal.
	sig := c.OnBar(candle(107, 110, 106, 109, 6))
	if sig == nil {
		t.Fatal("breakout close should produce a signal")
	}
	if c.State != AMDDone {
		t.Errorf("state = %s, want done", c.State)
	}
	if sig.Direction != domain.DirectionLong || sig.Entry != 108 || sig.Stop != 92 || sig.Target != 140 {
		t.Errorf("signal = %+v, want LONG 108/92/140", sig)
	}

	// The machine never re-fires within the same period.
	if sig := c.OnBar(candle(109, 115, 108, 114, 7)); sig != nil {
		t.Errorf("done machine must stay silent, got %+v", sig)
	}
}

func TestPO3ShortMirror(t *testing.T) {
	c := newTestPO3()

	// Accumulation below, manipulation above, return below.
	c.OnBar(candle(99, 99.5, 92, 95, 0))
	c.OnBar(candle(95, 97, 91, 94, 1))
	c.OnBar(candle(96, 106, 96, 104, 2))
	c.OnBar(candle(104, 108, 103, 105, 3))
	c.OnBar(candle(105, 105, 93, 94, 4))

	if c.State != AMDWaitEntry || !c.Valid {
		t.Fatalf("state = %s valid = %v, want a valid entry wait", c.State, c.Valid)
	}
	if c.Direction != domain.DirectionShort {
		t.Errorf("direction = %s, want SHORT", c.Direction)
	}
	if c.EntryPrice != 91 {
		t.Errorf("entry = %.1f, want accumulation low 91", c.EntryPrice)
	}
	if c.StopLoss != 109 {
		t.Errorf("stop = %.1f, want manipulation high 108 plus buffer 1", c.StopLoss)
	}

	sig := c.OnBar(candle(94, 94, 88, 90, 5))
	if sig == nil || sig.Direction != domain.DirectionShort {
		t.Fatalf("close below the accumulation low should fire a short, got %+v", sig)
	}
}

func TestPO3IgnoresZeroAccumulationFlip(t *testing.T) {
	c := newTestPO3()

	// One bar above, then an immediate flip below: noise, not manipulation.
	c.OnBar(candle(101, 106, 104, 105, 0))
	c.OnBar(candle(105, 105, 96, 98, 1))

	if c.State != AMDWaitAccumulation {
		t.Fatalf("state = %s, a flip with no full accumulation bar behind it must be ignored", c.State)
	}
	if c.AccumSide != SideAbove {
		t.Errorf("side = %s, the seeded side must survive the noise bar", c.AccumSide)
	}
}

func TestPO3OneBarManipulationInvalidates(t *testing.T) {
	c := newTestPO3()

	c.OnBar(candle(101, 106, 104, 105, 0))
	c.OnBar(candle(105, 108, 103, 107, 1))
	c.OnBar(candle(104, 104, 95, 97, 2)) // single manipulation bar
	c.OnBar(candle(97, 107, 97, 106, 3)) // immediate return

	if c.State != AMDWaitEntry {
		t.Fatalf("state = %s, want entry wait", c.State)
	}
	if c.Valid {
		t.Fatal("one-bar manipulation must not produce a tradeable setup")
	}

	// No breakout can fire for the rest of the period.
	if sig := c.OnBar(candle(106, 200, 106, 199, 4)); sig != nil {
		t.Errorf("invalid setup must never signal, got %+v", sig)
	}
}

func TestPO3IgnoresCloseAtAnchorOpen(t *testing.T) {
	c := newTestPO3()

	c.OnBar(candle(100, 101, 99, 100, 0)) // close exactly at anchor open
	if c.AccumSide != SideNone {
		t.Errorf("close at the anchor open must not seed accumulation, side = %s", c.AccumSide)
	}
}

func TestPO3Veto(t *testing.T) {
	c := newTestPO3()

	c.OnBar(candle(101, 106, 104, 105, 0))
	c.OnBar(candle(105, 108, 103, 107, 1))
	c.OnBar(candle(104, 104, 95, 97, 2))
	c.OnBar(candle(97, 98, 93, 96, 3))
	c.OnBar(candle(96, 107, 96, 106, 4))
	if c.State != AMDWaitEntry || !c.Valid {
		t.Fatalf("setup should be valid before the veto")
	}

	c.Veto()
	if c.State != AMDDone || c.Valid {
		t.Errorf("veto should close the period without a trade")
	}
	if sig := c.OnBar(candle(107, 110, 106, 109, 5)); sig != nil {
		t.Errorf("vetoed machine must stay silent, got %+v", sig)
	}
}

func TestPO3ResetStartsFresh(t *testing.T) {
	c := newTestPO3()

	c.OnBar(candle(101, 106, 104, 105, 0))
	c.OnBar(candle(105, 108, 103, 107, 1))
	c.OnBar(candle(104, 104, 95, 97, 2))

	c.Reset(200, testEpoch.Add(24*time.Hour))
	if c.State != AMDWaitAccumulation || c.AccumSide != SideNone {
		t.Fatalf("reset should restart accumulation, state = %s side = %s", c.State, c.AccumSide)
	}
	if c.AnchorOpen != 200 {
		t.Errorf("anchor open = %.1f, want 200", c.AnchorOpen)
	}
	if c.AccumHigh != 0 || c.ManipLow != 0 {
		t.Errorf("reset should clear the period extremes")
	}

	// The retained config still prices new setups.
	c.OnBar(candle(201, 206, 204, 205, 25))
	c.OnBar(candle(205, 208, 203, 207, 26))
	c.OnBar(candle(204, 204, 195, 197, 27))
	c.OnBar(candle(197, 198, 193, 196, 28))
	c.OnBar(candle(196, 207, 196, 206, 29))
	if c.State != AMDWaitEntry || !c.Valid {
		t.Fatalf("machine should work again after reset, state = %s", c.State)
	}
	if c.StopLoss != 192 {
		t.Errorf("stop = %.1f, want 193 - buffer 1 from the retained config", c.StopLoss)
	}
}
