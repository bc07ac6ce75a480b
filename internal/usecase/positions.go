package usecase

import (
	"log"
	"time"

	"signals-backend/internal/domain"
)

// PositionMonitor tracks active intents against live quotes and closes them
// when the stop, the target or the age limit is hit. It mirrors the
// exchange-resident orders so the local history stays truthful even when no
// real trading is enabled.
type PositionMonitor struct {
	provider domain.MarketDataProvider
	intents  domain.TradeIntentRepository

	checkInterval time.Duration
	maxAge        time.Duration
}

func NewPositionMonitor(provider domain.MarketDataProvider, intents domain.TradeIntentRepository) *PositionMonitor {
	return &PositionMonitor{
		provider:      provider,
		intents:       intents,
		checkInterval: 15 * time.Second,
		maxAge:        48 * time.Hour,
	}
}

// Run blocks, polling active intents on a fixed interval.
func (m *PositionMonitor) Run() {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.checkAll()
	}
}

func (m *PositionMonitor) checkAll() {
	for _, intent := range m.intents.GetActive() {
		m.check(intent)
	}
}

func (m *PositionMonitor) check(intent *domain.TradeIntent) {
	bid, ask, err := m.provider.BestPrice(intent.Symbol)
	if err != nil {
		log.Printf("Error fetching price for %s: %v", intent.Symbol, err)
		return
	}

	// A long exits at the bid, a short covers at the ask.
	price := bid
	if intent.Direction == domain.DirectionShort {
		price = ask
	}

	var reason string
	switch {
	case intent.Direction == domain.DirectionLong && price <= intent.StopLoss:
		reason = "SL_HIT"
	case intent.Direction == domain.DirectionLong && price >= intent.TakeProfit:
		reason = "TP_HIT"
	case intent.Direction == domain.DirectionShort && price >= intent.StopLoss:
		reason = "SL_HIT"
	case intent.Direction == domain.DirectionShort && price <= intent.TakeProfit:
		reason = "TP_HIT"
	case time.Since(intent.CreatedAt) > m.maxAge:
		reason = "MAX_AGE"
	default:
		return
	}

	m.close(intent, price, reason)
}

func (m *PositionMonitor) close(intent *domain.TradeIntent, price float64, reason string) {
	now := time.Now()
	intent.Status = "CLOSED"
	intent.ExitPrice = &price
	intent.ExitTime = &now
	intent.ExitReason = reason

	if err := m.intents.Update(intent); err != nil {
		log.Printf("Error closing intent %s: %v", intent.ID, err)
		return
	}

	log.Printf("Closed %s %s at %.6f (%s)", intent.Symbol, intent.Direction, price, reason)
}
