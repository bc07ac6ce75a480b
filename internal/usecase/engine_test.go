package usecase

import (
	"testing"
	"time"

	"signals-backend/internal/domain"
	"signals-backend/internal/repository"
)

type fakeProvider struct {
	series domain.BarSeries
}

func (f *fakeProvider) Bars(symbol, timeframe string, count int) (domain.BarSeries, error) {
	return f.series, nil
}

func (f *fakeProvider) BestPrice(symbol string) (float64, float64, error) {
	if f.series.Len() == 0 {
		return 0, 0, nil
	}
	p := f.series[0].Close
	return p, p, nil
}

type countingSnaps struct {
	saves int
	last  domain.StructureSnapshot
}

func (s *countingSnaps) Save(snap domain.StructureSnapshot) {
	s.saves++
	s.last = snap
}

func (s *countingSnaps) Get(symbol string) (domain.StructureSnapshot, bool) {
	return s.last, s.saves > 0
}

func (s *countingSnaps) GetAll() []domain.StructureSnapshot {
	if s.saves == 0 {
		return nil
	}
	return []domain.StructureSnapshot{s.last}
}

func flatWindow(n int) domain.BarSeries {
	bars := make([]domain.Bar, n)
	for i := range bars {
		bars[i] = candle(100, 101, 99, 100.5, i)
	}
	return seriesFromChronological(bars)
}

func newTestEngine(provider *fakeProvider, snaps *countingSnaps) *StructureEngine {
	cfg := DefaultEngineConfig()
	cfg.WindowSize = 20
	return NewStructureEngine(cfg, []string{"BTCUSDT"}, provider, repository.NewIntentRepository(), snaps, nil, nil)
}

func TestEvaluateSymbolPublishesSnapshot(t *testing.T) {
	provider := &fakeProvider{series: flatWindow(20)}
	snaps := &countingSnaps{}
	engine := newTestEngine(provider, snaps)

	engine.evaluateSymbol("BTCUSDT")

	if snaps.saves != 1 {
		t.Fatalf("expected one snapshot, got %d", snaps.saves)
	}
	if snaps.last.Symbol != "BTCUSDT" {
		t.Errorf("snapshot symbol = %s", snaps.last.Symbol)
	}
	if snaps.last.AMDState == "" {
		t.Error("snapshot should carry the AMD state")
	}
}

func TestEvaluateSymbolGuardsAgainstSameBar(t *testing.T) {
	provider := &fakeProvider{series: flatWindow(20)}
	snaps := &countingSnaps{}
	engine := newTestEngine(provider, snaps)

	// Same window twice: the second evaluation sees no new closed bar and
	// must do nothing.
	engine.evaluateSymbol("BTCUSDT")
	engine.evaluateSymbol("BTCUSDT")
	if snaps.saves != 1 {
		t.Fatalf("re-evaluating the same bar should not publish, saves = %d", snaps.saves)
	}

	// A fresh bar unblocks the evaluation.
	next := append(domain.BarSeries{candle(100.5, 101.5, 99.5, 100.8, 20)}, provider.series...)
	provider.series = next
	engine.evaluateSymbol("BTCUSDT")
	if snaps.saves != 2 {
		t.Fatalf("a new bar should publish again, saves = %d", snaps.saves)
	}
}

func TestEvaluateSymbolEmptySeries(t *testing.T) {
	provider := &fakeProvider{series: nil}
	snaps := &countingSnaps{}
	engine := newTestEngine(provider, snaps)

	engine.evaluateSymbol("BTCUSDT")
	if snaps.saves != 0 {
		t.Errorf("an empty window must not publish, saves = %d", snaps.saves)
	}
}

// timeframeProvider serves a distinct window per timeframe, so the structure
// and confirmation paths can be driven independently.
type timeframeProvider struct {
	windows map[string]domain.BarSeries
}

func (p *timeframeProvider) Bars(symbol, timeframe string, count int) (domain.BarSeries, error) {
	return p.windows[timeframe], nil
}

func (p *timeframeProvider) BestPrice(symbol string) (float64, float64, error) {
	return 0, 0, nil
}

func newPendingEngine(provider *timeframeProvider, intents *repository.IntentRepository) (*StructureEngine, *symbolSession) {
	cfg := DefaultEngineConfig()
	cfg.WindowSize = 20
	engine := NewStructureEngine(cfg, []string{"BTCUSDT"}, provider, intents, &countingSnaps{}, nil, nil)

	session := engine.session("BTCUSDT")
	session.lastBarTime = provider.windows[cfg.Timeframe][0].OpenTime
	session.pending = &PendingSignal{
		Symbol:        "BTCUSDT",
		ZoneUpper:     102,
		ZoneLower:     100,
		IsSupportSide: true,
		StopBuffer:    0.5,
		CreatedAt:     time.Now(),
	}
	session.confirm.Arm()
	return engine, session
}

func TestEvaluateSymbolConfirmsPendingWithoutNewStructureBar(t *testing.T) {
	// Three bull candles closing inside the zone: a confirming sequence on
	// the lower timeframe while the structure window is unchanged.
	ltf := seriesFromChronological([]domain.Bar{
		candle(100.2, 100.8, 100.1, 100.7, 0),
		candle(100.7, 101.2, 100.6, 101.1, 1),
		candle(101.1, 101.6, 101.0, 101.5, 2),
	})
	provider := &timeframeProvider{windows: map[string]domain.BarSeries{
		"1h": flatWindow(20),
		"5m": ltf,
	}}
	intents := repository.NewIntentRepository()
	engine, session := newPendingEngine(provider, intents)

	engine.evaluateSymbol("BTCUSDT")

	if session.pending != nil {
		t.Fatal("a confirming lower-timeframe close must resolve the pending signal")
	}

	active := intents.GetActive()
	if len(active) != 1 {
		t.Fatalf("expected one emitted intent, got %d", len(active))
	}
	intent := active[0]
	if intent.Direction != domain.DirectionLong {
		t.Errorf("direction = %s, want LONG", intent.Direction)
	}
	if intent.EntryPrice != 101.5 {
		t.Errorf("entry = %v, want the confirming close 101.5", intent.EntryPrice)
	}
	if intent.StopLoss != 99.5 {
		t.Errorf("stop = %v, want zone lower minus buffer 99.5", intent.StopLoss)
	}
	if intent.TakeProfit != 105.5 {
		t.Errorf("target = %v, want 105.5", intent.TakeProfit)
	}
}

func TestEvaluateSymbolPendingDedupsLowerTimeframeBars(t *testing.T) {
	// Mixed candles inside the zone: no pattern, so the signal stays pending.
	ltf := seriesFromChronological([]domain.Bar{
		candle(100.2, 100.7, 100.1, 100.6, 0),
		candle(100.6, 101.0, 100.5, 100.9, 1),
		candle(100.9, 100.95, 100.65, 100.7, 2),
	})
	provider := &timeframeProvider{windows: map[string]domain.BarSeries{
		"1h": flatWindow(20),
		"5m": ltf,
	}}
	engine, session := newPendingEngine(provider, repository.NewIntentRepository())

	// Two ticks over the same lower-timeframe window: only the first may
	// spend a bar of the waiting budget.
	engine.evaluateSymbol("BTCUSDT")
	engine.evaluateSymbol("BTCUSDT")

	if session.pending == nil {
		t.Fatal("non-confirming window should leave the signal pending")
	}
	if session.pending.BarsWaited != 1 {
		t.Fatalf("re-serving the same lower-timeframe bar must not count twice, waited = %d", session.pending.BarsWaited)
	}
}

func TestZoneContaining(t *testing.T) {
	zones := []domain.PriceZone{
		{Lower: 90, Upper: 95, Active: true},
		{Lower: 100, Upper: 105, Active: true},
		{Lower: 102, Upper: 108, Active: false},
	}

	z, ok := zoneContaining(zones, 103)
	if !ok || z.Lower != 100 {
		t.Errorf("expected the active zone [100, 105], got %+v ok=%v", z, ok)
	}
	if _, ok := zoneContaining(zones, 97); ok {
		t.Error("no zone contains 97")
	}
	if _, ok := zoneContaining(zones, 107); ok {
		t.Error("only the inactive zone contains 107")
	}
}

func TestStopBufferUsesPercentFloor(t *testing.T) {
	provider := &fakeProvider{}
	snaps := &countingSnaps{}
	engine := newTestEngine(provider, snaps)

	// A dead-flat window has near-zero ATR, so the percent floor wins.
	bars := flatWindow(20)
	got := engine.stopBuffer(bars, 100)
	floor := 100 * engine.cfg.StopBufferPct / 100
	if got < floor {
		t.Errorf("buffer %.4f below the percent floor %.4f", got, floor)
	}
}

func TestSessionFilterBlackout(t *testing.T) {
	f := SessionFilter{StartHour: 8, EndHour: 12}

	at := func(h int) time.Time {
		return time.Date(2025, 6, 1, h, 30, 0, 0, time.UTC)
	}

	if !f.IsBlackout(at(8)) || !f.IsBlackout(at(11)) {
		t.Error("hours inside the window should be blacked out")
	}
	if f.IsBlackout(at(7)) || f.IsBlackout(at(12)) {
		t.Error("hours outside the window should pass")
	}
}

func TestSessionFilterWrapsMidnight(t *testing.T) {
	f := SessionFilter{StartHour: 22, EndHour: 2}

	at := func(h int) time.Time {
		return time.Date(2025, 6, 1, h, 0, 0, 0, time.UTC)
	}

	if !f.IsBlackout(at(23)) || !f.IsBlackout(at(1)) {
		t.Error("wrapped window should cover both sides of midnight")
	}
	if f.IsBlackout(at(12)) {
		t.Error("noon is outside the wrapped window")
	}
}

func TestSessionFilterDisabled(t *testing.T) {
	f := SessionFilter{StartHour: 0, EndHour: 0}
	if f.IsBlackout(time.Now()) {
		t.Error("equal start and end hours disable the filter")
	}
}
