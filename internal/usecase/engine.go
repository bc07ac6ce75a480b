package usecase

import (
	"log"
	"sync"
	"time"

	"signals-backend/internal/domain"
	"signals-backend/internal/infrastructure/indicators"

	"github.com/google/uuid"
)

// EngineConfig is the immutable parameter set for one engine instance. It is
// passed by value into every evaluation; there are no package-level mutable
// parameter tables.
type EngineConfig struct {
	Timeframe       string // structure timeframe, e.g. "1h"
	LowerTimeframe  string // confirmation timeframe, e.g. "5m"
	AnchorDuration  time.Duration
	AnchorTimeframe string // anchor period label for display, e.g. "1d"
	WindowSize      int
	LowerWindowSize int

	// Clusterer distances, as percent of current price; converted to
	// absolute price distances per evaluation.
	TolerancePct     float64
	MergeDistancePct float64

	BaseZone BaseZoneConfig

	MomentumCandles   int
	RequireConfluence bool

	Confirmation ConfirmationConfig

	// Stop buffer beyond a zone boundary / manipulation extreme: percent of
	// price, widened to StopATRFactor * ATR(14) when that is larger.
	StopBufferPct float64
	StopATRFactor float64

	RewardMultiple float64
	RiskPercent    float64

	ScanInterval  time.Duration
	MaxConcurrent int
}

// DefaultEngineConfig returns the baseline hourly structure / 5m
// confirmation / daily anchor setup.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Timeframe:         "1h",
		LowerTimeframe:    "5m",
		AnchorDuration:    24 * time.Hour,
		AnchorTimeframe:   "1d",
		WindowSize:        100,
		LowerWindowSize:   30,
		TolerancePct:      0.05,
		MergeDistancePct:  0.10,
		BaseZone:          DefaultBaseZoneConfig(),
		MomentumCandles:   3,
		RequireConfluence: true,
		Confirmation:      DefaultConfirmationConfig(),
		StopBufferPct:     0.05,
		StopATRFactor:     0.25,
		RewardMultiple:    2.0,
		RiskPercent:       1.0,
		ScanInterval:      time.Minute,
		MaxConcurrent:     10,
	}
}

// IntentNotifier is the optional alerting hook fired on every emitted
// intent.
type IntentNotifier interface {
	NotifyIntent(intent *domain.TradeIntent)
}

// symbolSession is the only persistent mutable state in the core, scoped to
// a single (symbol, timeframe, anchor period) triple. No state is shared
// across instruments.
type symbolSession struct {
	symbol           string
	lastBarTime      time.Time
	lastLowerBarTime time.Time
	lastAnchorTime   time.Time

	pending *PendingSignal
	confirm *ConfirmationDetector
	amd     *PO3Context

	support    []domain.PriceZone
	resistance []domain.PriceZone
	demand     []domain.PriceZone
	supply     []domain.PriceZone
}

// StructureEngine runs the market-structure scan across the configured
// symbols: one evaluation per new-bar event, guarded against re-running
// within the same bar.
type StructureEngine struct {
	cfg      EngineConfig
	symbols  []string
	provider domain.MarketDataProvider
	intents  domain.TradeIntentRepository
	snaps    domain.SnapshotRepository
	trend    domain.TrendFilter
	times    domain.TimeFilter

	sink     domain.ExecutionSink // optional
	notifier IntentNotifier       // optional

	sessions map[string]*symbolSession
	mu       sync.Mutex
}

func NewStructureEngine(
	cfg EngineConfig,
	symbols []string,
	provider domain.MarketDataProvider,
	intents domain.TradeIntentRepository,
	snaps domain.SnapshotRepository,
	trend domain.TrendFilter,
	times domain.TimeFilter,
) *StructureEngine {
	return &StructureEngine{
		cfg:      cfg,
		symbols:  symbols,
		provider: provider,
		intents:  intents,
		snaps:    snaps,
		trend:    trend,
		times:    times,
		sessions: make(map[string]*symbolSession),
	}
}

// SetExecutionSink attaches an optional execution collaborator.
func (e *StructureEngine) SetExecutionSink(sink domain.ExecutionSink) { e.sink = sink }

// SetNotifier attaches an optional intent alerting hook.
func (e *StructureEngine) SetNotifier(n IntentNotifier) { e.notifier = n }

// Config returns the engine's immutable configuration.
func (e *StructureEngine) Config() EngineConfig { return e.cfg }

// Run starts the scan loop. Cycles run back to back, never concurrently, so
// at most one evaluation is in flight per instrument.
func (e *StructureEngine) Run() {
	ticker := time.NewTicker(e.cfg.ScanInterval)
	defer ticker.Stop()

	e.process()
	for range ticker.C {
		e.process()
	}
}

func (e *StructureEngine) process() {
	start := time.Now()

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.cfg.MaxConcurrent)

	for _, sym := range e.symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			e.evaluateSymbol(symbol)
		}(sym)
	}

	wg.Wait()
	log.Printf("Scan cycle completed in %v (%d symbols)", time.Since(start), len(e.symbols))
}

func (e *StructureEngine) session(symbol string) *symbolSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[symbol]
	if !ok {
		s = &symbolSession{
			symbol:  symbol,
			confirm: NewConfirmationDetector(e.cfg.Confirmation),
		}
		e.sessions[symbol] = s
	}
	return s
}

func (e *StructureEngine) evaluateSymbol(symbol string) {
	session := e.session(symbol)

	// A pending signal lives on the lower timeframe, whose bars close far
	// more often than structure bars. It is re-checked on every tick, ahead
	// of the structure-bar guard, with its own de-dup on the last lower bar.
	if session.pending != nil {
		e.evaluatePending(session)
	}

	bars, err := e.provider.Bars(symbol, e.cfg.Timeframe, e.cfg.WindowSize)
	if err != nil {
		log.Printf("Error fetching %s %s bars: %v", symbol, e.cfg.Timeframe, err)
		return
	}
	if bars.Len() == 0 {
		return
	}

	// Bar-close guard: one structure evaluation per new structure bar.
	if !bars[0].OpenTime.After(session.lastBarTime) {
		return
	}
	session.lastBarTime = bars[0].OpenTime

	price := bars[0].Close
	tolerance := price * e.cfg.TolerancePct / 100
	mergeDistance := price * e.cfg.MergeDistancePct / 100

	// Zone sets are fully rebuilt every scan; identity is scan-local.
	supTouches, resTouches := SwingTouches(bars)
	session.support = ClusterLevels(supTouches, tolerance, mergeDistance, domain.ZoneSupport)
	session.resistance = ClusterLevels(resTouches, tolerance, mergeDistance, domain.ZoneResistance)
	session.demand, session.supply = DetectBaseZones(bars, e.cfg.BaseZone)

	stopBuffer := e.stopBuffer(bars, price)

	e.driveAMD(session, bars, stopBuffer)

	if session.pending == nil {
		e.tryArm(session, bars, stopBuffer)
	}

	e.publishSnapshot(session, price)
}

// stopBuffer derives the absolute stop buffer for the current window: a
// percent-of-price floor widened by an ATR fraction when volatility calls
// for it.
func (e *StructureEngine) stopBuffer(bars domain.BarSeries, price float64) float64 {
	buffer := price * e.cfg.StopBufferPct / 100
	if e.cfg.StopATRFactor <= 0 {
		return buffer
	}
	chrono := bars.Reversed()
	atr := indicators.CalculateATR(chrono.Highs(), chrono.Lows(), chrono.Closes(), 14)
	if last := atr[len(atr)-1]; last > 0 {
		if widened := e.cfg.StopATRFactor * last; widened > buffer {
			buffer = widened
		}
	}
	return buffer
}

// driveAMD resets the PO3 context exactly when a new anchor period opens and
// advances it with the newest structure bar.
func (e *StructureEngine) driveAMD(session *symbolSession, bars domain.BarSeries, stopBuffer float64) {
	anchorStart := bars[0].OpenTime.UTC().Truncate(e.cfg.AnchorDuration)

	if session.amd == nil || anchorStart.After(session.lastAnchorTime) {
		// Anchor open = open of the period's first bar in the window. A
		// stale in-progress context from the previous period is simply
		// discarded.
		anchorOpen := bars[0].Open
		for i := bars.Len() - 1; i >= 0; i-- {
			if !bars[i].OpenTime.UTC().Before(anchorStart) {
				anchorOpen = bars[i].Open
				break
			}
		}
		session.amd = NewPO3Context(AMDConfig{
			StopBuffer:     stopBuffer,
			RewardMultiple: e.cfg.RewardMultiple,
		})
		session.amd.Reset(anchorOpen, anchorStart)
		session.lastAnchorTime = anchorStart
	}

	sig := session.amd.OnBar(bars[0])

	// Secondary trend filter can veto a computed setup before the breakout.
	if sig == nil && e.trend != nil && session.amd.State == AMDWaitEntry && session.amd.Valid {
		if bias, ok := e.trend.Bias(session.symbol); ok && bias != session.amd.Direction {
			log.Printf("%s: AMD setup vetoed by trend filter (%s vs %s)", session.symbol, bias, session.amd.Direction)
			session.amd.Veto()
		}
	}

	if sig == nil {
		return
	}

	// Breakout fired: re-run the gating before emitting.
	if e.times != nil && e.times.IsBlackout(time.Now()) {
		log.Printf("%s: AMD breakout vetoed by time filter", session.symbol)
		return
	}
	if e.trend != nil {
		if bias, ok := e.trend.Bias(session.symbol); ok && bias != sig.Direction {
			log.Printf("%s: AMD breakout vetoed by trend filter", session.symbol)
			return
		}
	}

	e.emit(session.symbol, sig.Direction, sig.Entry, sig.Stop, sig.Target, domain.SourceAMDBreakout, "")
}

// tryArm looks for price sitting inside a support/resistance zone with
// momentum conviction and (when required) demand/supply confluence, and arms
// the confirmation detector with a by-value pending signal.
func (e *StructureEngine) tryArm(session *symbolSession, bars domain.BarSeries, stopBuffer float64) {
	price := bars[0].Close
	closes := bars.Closes()

	if zone, ok := zoneContaining(session.support, price); ok {
		if indicators.HasDescendingMomentum(closes, e.cfg.MomentumCandles, zone.Mid()) {
			e.armSignal(session, zone, true, session.demand, stopBuffer)
			return
		}
	}
	if zone, ok := zoneContaining(session.resistance, price); ok {
		if indicators.HasAscendingMomentum(closes, e.cfg.MomentumCandles, zone.Mid()) {
			e.armSignal(session, zone, false, session.supply, stopBuffer)
		}
	}
}

func (e *StructureEngine) armSignal(session *symbolSession, zone domain.PriceZone, isSupport bool, candidates []domain.PriceZone, stopBuffer float64) {
	idx, found := FindConfluence(zone, candidates)
	if !found && e.cfg.RequireConfluence {
		// No confluence: the candidate is skipped entirely for this tick.
		return
	}

	ps := &PendingSignal{
		Symbol:        session.symbol,
		ZoneUpper:     zone.Upper,
		ZoneLower:     zone.Lower,
		IsSupportSide: isSupport,
		StopBuffer:    stopBuffer,
		CreatedAt:     time.Now(),
	}
	if found {
		ps.ConfluenceUpper = candidates[idx].Upper
		ps.ConfluenceLower = candidates[idx].Lower
		ConsumeZone(candidates, idx) // one-shot
	}

	session.pending = ps
	session.confirm.Arm()
	log.Printf("%s: pending signal armed (%s zone %.6f-%.6f)", session.symbol, sideLabel(isSupport), zone.Lower, zone.Upper)
}

func (e *StructureEngine) evaluatePending(session *symbolSession) {
	ltf, err := e.provider.Bars(session.symbol, e.cfg.LowerTimeframe, e.cfg.LowerWindowSize)
	if err != nil {
		// Missing lower-timeframe data is routine; the signal stays
		// pending until its bar budget runs out.
		return
	}
	if ltf.Len() > 0 {
		if !ltf[0].OpenTime.After(session.lastLowerBarTime) {
			return
		}
		session.lastLowerBarTime = ltf[0].OpenTime
	}

	outcome, conf := session.confirm.Evaluate(session.pending, ltf)
	switch outcome {
	case OutcomeConfirmed:
		direction := domain.DirectionShort
		if session.pending.IsSupportSide {
			direction = domain.DirectionLong
		}
		session.pending = nil

		// Re-validate the broader trend before emitting.
		if e.trend != nil {
			if bias, ok := e.trend.Bias(session.symbol); ok && bias != direction {
				log.Printf("%s: confirmation cancelled, trend flipped to %s", session.symbol, bias)
				return
			}
		}
		if e.times != nil && e.times.IsBlackout(time.Now()) {
			log.Printf("%s: confirmation vetoed by time filter", session.symbol)
			return
		}
		e.emit(session.symbol, direction, conf.Entry, conf.Stop, conf.Target, domain.SourceZoneConfirmation, conf.Pattern)

	case OutcomeCancelled:
		log.Printf("%s: pending signal cancelled, price left the zone", session.symbol)
		session.pending = nil

	case OutcomeExpired:
		log.Printf("%s: pending signal expired after %d bars", session.symbol, e.cfg.Confirmation.MaxCandles)
		session.pending = nil
	}
}

func (e *StructureEngine) emit(symbol string, direction domain.Direction, entry, stop, target float64, source, pattern string) {
	intent := &domain.TradeIntent{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		Direction:   direction,
		EntryPrice:  entry,
		StopLoss:    stop,
		TakeProfit:  target,
		RiskPercent: e.cfg.RiskPercent,
		Source:      source,
		Pattern:     pattern,
		CreatedAt:   time.Now(),
		Status:      "ACTIVE",
	}

	if err := e.intents.Create(intent); err != nil {
		log.Printf("Error saving intent for %s: %v", symbol, err)
		return
	}

	log.Printf("🎯 Intent emitted: %s %s | entry %.6f | SL %.6f | TP %.6f | %s",
		symbol, direction, entry, stop, target, source)

	if e.notifier != nil {
		e.notifier.NotifyIntent(intent)
	}
	if e.sink != nil {
		if err := e.sink.Execute(intent); err != nil {
			log.Printf("Execution sink rejected %s intent: %v", symbol, err)
		}
	}
}

func (e *StructureEngine) publishSnapshot(session *symbolSession, price float64) {
	if e.snaps == nil {
		return
	}
	snap := domain.StructureSnapshot{
		Symbol:        session.symbol,
		Timeframe:     e.cfg.Timeframe,
		Price:         price,
		Support:       session.support,
		Resistance:    session.resistance,
		Demand:        session.demand,
		Supply:        session.supply,
		PendingActive: session.pending != nil,
		UpdatedAt:     time.Now(),
	}
	if session.amd != nil {
		snap.AMDState = string(session.amd.State)
		snap.AMDDirection = session.amd.Direction
	}
	e.snaps.Save(snap)
}

func zoneContaining(zones []domain.PriceZone, price float64) (domain.PriceZone, bool) {
	for _, z := range zones {
		if z.Active && z.Contains(price) {
			return z, true
		}
	}
	return domain.PriceZone{}, false
}

func sideLabel(isSupport bool) string {
	if isSupport {
		return "support"
	}
	return "resistance"
}
