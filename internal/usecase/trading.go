package usecase

import (
	"errors"
	"log"
	"math"
	"time"

	"signals-backend/internal/domain"
	"signals-backend/internal/infrastructure/binance"
)

var (
	ErrRealTradingDisabled = errors.New("real trading is disabled")
	ErrMissingCredentials  = errors.New("binance credentials not configured")
	ErrTooManyOpenIntents  = errors.New("max open intents reached")
)

// ExecutionService turns emitted intents into real futures orders: a market
// entry plus exchange-resident STOP_MARKET and TAKE_PROFIT_MARKET orders.
// It implements domain.ExecutionSink.
type ExecutionService struct {
	store   domain.ExecutionStore
	intents domain.TradeIntentRepository
	userID  string
}

func NewExecutionService(store domain.ExecutionStore, intents domain.TradeIntentRepository, userID string) *ExecutionService {
	return &ExecutionService{store: store, intents: intents, userID: userID}
}

// Execute places the intent on the exchange. Rejections from the safety
// switch or missing credentials come back as sentinel errors; callers decide
// whether that is fatal.
func (s *ExecutionService) Execute(intent *domain.TradeIntent) error {
	settings, err := s.store.GetSettings(s.userID)
	if err != nil || settings == nil {
		settings = &domain.ExecutionSettings{UserID: s.userID, EnableRealTrading: false}
	}

	if !settings.EnableRealTrading {
		return ErrRealTradingDisabled
	}

	if settings.MaxOpenIntents > 0 && len(s.intents.GetActive()) > settings.MaxOpenIntents {
		return ErrTooManyOpenIntents
	}
	if settings.MaxDailyTrades > 0 {
		since := time.Now().Add(-24 * time.Hour)
		if len(s.intents.GetHistory(since)) >= settings.MaxDailyTrades {
			return ErrTooManyOpenIntents
		}
	}

	cred, err := s.store.GetCredentials(s.userID)
	if err != nil || cred == nil {
		return ErrMissingCredentials
	}

	leverage := settings.Leverage
	if leverage < 1 {
		leverage = 1
	}
	if leverage > 20 {
		leverage = 20
	}

	client := binance.NewTradingClient(cred.APIKey, cred.SecretKey, cred.IsTestnet)
	if err := client.SetLeverage(intent.Symbol, leverage); err != nil {
		return err
	}

	acct, err := client.GetAccountInfo()
	if err != nil {
		return err
	}
	if acct.AvailableBalance <= 0 {
		return errors.New("insufficient balance")
	}

	qty, err := positionSize(acct.AvailableBalance, settings.RiskPercent, intent)
	if err != nil {
		return err
	}

	side := "BUY"
	positionSide := "LONG"
	if intent.Direction == domain.DirectionShort {
		side = "SELL"
		positionSide = "SHORT"
	}

	// 1) Market entry
	entryResp, err := client.PlaceOrder(&domain.OrderRequest{
		Symbol:       intent.Symbol,
		Side:         side,
		PositionSide: positionSide,
		OrderType:    "MARKET",
		Quantity:     qty,
	})
	if err != nil {
		// Fallback for One-way mode where positionSide must be BOTH.
		var apiErr *binance.APIError
		if errors.As(err, &apiErr) && apiErr.Code == -4061 {
			positionSide = "BOTH"
			entryResp, err = client.PlaceOrder(&domain.OrderRequest{
				Symbol:       intent.Symbol,
				Side:         side,
				PositionSide: positionSide,
				OrderType:    "MARKET",
				Quantity:     qty,
			})
		}
	}
	if err != nil {
		return err
	}

	filledPrice := entryResp.ExecutedPrice
	if filledPrice <= 0 {
		filledPrice = intent.EntryPrice
	}

	// For the trigger orders in One-way mode the closing side is derived from
	// the trade direction, not the position side.
	triggerSide := positionSide
	if triggerSide == "BOTH" {
		triggerSide = "SHORT"
		if intent.Direction == domain.DirectionLong {
			triggerSide = "LONG"
		}
	}

	// 2) STOP_MARKET closePosition stop loss
	slID, err := client.PlaceStopLossOrder(intent.Symbol, intent.StopLoss, triggerSide)
	if err != nil {
		// If SL placement fails the position is naked: alert loudly.
		log.Printf("CRITICAL: SL order placement failed for %s entryOrder=%d: %v",
			intent.Symbol, entryResp.OrderID, err)
		return err
	}

	// 3) TAKE_PROFIT_MARKET closePosition target. Best effort: the SL already
	// bounds the downside.
	tpID, err := client.PlaceTakeProfitOrder(intent.Symbol, intent.TakeProfit, triggerSide)
	if err != nil {
		log.Printf("Warning: TP order placement failed for %s: %v", intent.Symbol, err)
		tpID = 0
	}

	log.Printf("Executed %s %s qty=%.4f entry=%.6f (orders: entry=%d sl=%d tp=%d)",
		intent.Symbol, intent.Direction, qty, filledPrice, entryResp.OrderID, slID, tpID)
	return nil
}

// positionSize derives the order quantity so the distance from entry to stop
// risks riskPercent of the available balance.
func positionSize(balance, riskPercent float64, intent *domain.TradeIntent) (float64, error) {
	if riskPercent <= 0 {
		riskPercent = intent.RiskPercent
	}
	if riskPercent <= 0 {
		riskPercent = 1.0
	}

	stopDistance := math.Abs(intent.EntryPrice - intent.StopLoss)
	if stopDistance <= 0 {
		return 0, errors.New("zero stop distance")
	}

	riskAmount := balance * riskPercent / 100
	qty := floorTo(riskAmount/stopDistance, 3) // 0.001 steps baseline; real step size differs per symbol.
	if qty <= 0 {
		return 0, errors.New("calculated quantity too small")
	}
	return qty, nil
}

func floorTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Floor(v*p) / p
}
