package domain

import "time"

// MarketDataProvider supplies closed-bar windows and live quotes. Bars come
// back most-recent-first; index 0 is always the last *closed* bar, never the
// forming one.
type MarketDataProvider interface {
	Bars(symbol, timeframe string, count int) (BarSeries, error)
	BestPrice(symbol string) (bid, ask float64, err error)
}

// ExecutionSink accepts a priced trade intent. Implementations own retry and
// broker-constraint handling.
type ExecutionSink interface {
	Execute(intent *TradeIntent) error
}

// TrendFilter is an external directional-bias oracle. ok is false when the
// filter has no opinion (warm-up, flat market).
type TrendFilter interface {
	Bias(symbol string) (dir Direction, ok bool)
}

// TimeFilter reports excluded trading windows (news blackout, session
// restriction).
type TimeFilter interface {
	IsBlackout(t time.Time) bool
}

// StructureSnapshot is the per-symbol geometry published for display after a
// scan cycle. One-way, fire-and-forget; never read back by the engine.
type StructureSnapshot struct {
	Symbol        string      `json:"symbol"`
	Timeframe     string      `json:"timeframe"`
	Price         float64     `json:"price"`
	Support       []PriceZone `json:"support"`
	Resistance    []PriceZone `json:"resistance"`
	Demand        []PriceZone `json:"demand"`
	Supply        []PriceZone `json:"supply"`
	AMDState      string      `json:"amdState"`
	AMDDirection  Direction   `json:"amdDirection,omitempty"`
	PendingActive bool        `json:"pendingActive"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// SnapshotRepository stores the latest snapshot per symbol.
type SnapshotRepository interface {
	Save(snapshot StructureSnapshot)
	Get(symbol string) (StructureSnapshot, bool)
	GetAll() []StructureSnapshot
}
