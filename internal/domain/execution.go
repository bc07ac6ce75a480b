package domain

import "time"

// ExecutionCredentials holds the exchange API keys used by the execution
// sink. The secret is expected to be encrypted at rest by the store.
type ExecutionCredentials struct {
	UserID    string    `json:"userId"`
	APIKey    string    `json:"apiKey"`
	SecretKey string    `json:"secretKey"`
	IsTestnet bool      `json:"isTestnet"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExecutionSettings gates and sizes real order placement.
type ExecutionSettings struct {
	UserID            string  `json:"userId"`
	EnableRealTrading bool    `json:"enableRealTrading"` // safety switch, off by default
	Leverage          int     `json:"leverage"`          // 1-20x
	RiskPercent       float64 `json:"riskPercent"`       // account % risked per intent
	MaxOpenIntents    int     `json:"maxOpenIntents"`
	MaxDailyTrades    int     `json:"maxDailyTrades"`
}

// OrderRequest is an exchange-agnostic order instruction.
type OrderRequest struct {
	Symbol       string  `json:"symbol"`
	Side         string  `json:"side"`         // BUY or SELL
	PositionSide string  `json:"positionSide"` // LONG, SHORT or BOTH
	OrderType    string  `json:"orderType"`    // MARKET or LIMIT
	Quantity     float64 `json:"quantity"`
	Price        float64 `json:"price,omitempty"`
}

// OrderResponse reports a placed order.
type OrderResponse struct {
	OrderID       int64   `json:"orderId"`
	Symbol        string  `json:"symbol"`
	Status        string  `json:"status"`
	ExecutedQty   float64 `json:"executedQty"`
	ExecutedPrice float64 `json:"executedPrice"`
}

// AccountPosition is one open futures position.
type AccountPosition struct {
	Symbol           string  `json:"symbol"`
	PositionSide     string  `json:"positionSide"`
	PositionAmount   float64 `json:"positionAmount"`
	EntryPrice       float64 `json:"entryPrice"`
	MarkPrice        float64 `json:"markPrice"`
	UnrealizedProfit float64 `json:"unrealizedProfit"`
	Leverage         int     `json:"leverage"`
}

// AccountInfo summarizes the futures account used for sizing.
type AccountInfo struct {
	TotalBalance     float64           `json:"totalBalance"`
	AvailableBalance float64           `json:"availableBalance"`
	UsdtBalance      float64           `json:"usdtBalance"`
	PositionsCount   int               `json:"positionsCount"`
	Positions        []AccountPosition `json:"positions"`
}

// ExecutionStore abstracts credential/settings storage.
// Implementations: in-memory (dev) and Postgres (production).
type ExecutionStore interface {
	SaveCredentials(cred *ExecutionCredentials) error
	GetCredentials(userID string) (*ExecutionCredentials, error)
	DeleteCredentials(userID string) error

	SaveSettings(settings *ExecutionSettings) error
	GetSettings(userID string) (*ExecutionSettings, error)
}
