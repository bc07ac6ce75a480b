package domain

import "time"

// Direction is the side of a trade intent.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Intent sources.
const (
	SourceZoneConfirmation = "ZONE_CONFIRMATION"
	SourceAMDBreakout      = "AMD_BREAKOUT"
)

// TradeIntent is the engine's output: a fully priced directional trade
// proposal handed to the execution sink. The engine does not validate
// broker-specific constraints; that is the sink's responsibility.
type TradeIntent struct {
	ID          string     `json:"id"`
	Symbol      string     `json:"symbol"`
	Direction   Direction  `json:"direction"`
	EntryPrice  float64    `json:"entryPrice"`
	StopLoss    float64    `json:"stopLoss"`
	TakeProfit  float64    `json:"takeProfit"`
	RiskPercent float64    `json:"riskPercent"`
	Source      string     `json:"source"`  // ZONE_CONFIRMATION or AMD_BREAKOUT
	Pattern     string     `json:"pattern"` // confirming pattern, if any
	CreatedAt   time.Time  `json:"createdAt"`
	Status      string     `json:"status"` // ACTIVE, CLOSED
	ExitPrice   *float64   `json:"exitPrice,omitempty"`
	ExitTime    *time.Time `json:"exitTime,omitempty"`
	ExitReason  string     `json:"exitReason,omitempty"` // SL_HIT, TP_HIT, MAX_AGE, MANUAL
}

// TradeIntentRepository defines intent persistence operations.
type TradeIntentRepository interface {
	Create(intent *TradeIntent) error
	GetActive() []*TradeIntent
	GetByID(id string) (*TradeIntent, error)
	Update(intent *TradeIntent) error
	GetHistory(fromTime time.Time) []*TradeIntent
	Delete(id string) error
}
