package binance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"signals-backend/internal/domain"
)

const (
	FapiBaseURL = "https://fapi.binance.com"
	SpotBaseURL = "https://api.binance.com"
)

// Client is the public (unauthenticated) futures market-data client. It
// implements domain.MarketDataProvider.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type ExchangeInfo struct {
	Symbols []SymbolInfo `json:"symbols"`
}

type SymbolInfo struct {
	Symbol string `json:"symbol"`
	Status string `json:"status"`
}

// GetActiveTradingSymbols returns symbols with status "TRADING" from Futures API.
func (c *Client) GetActiveTradingSymbols() ([]string, error) {
	resp, err := c.httpClient.Get(FapiBaseURL + "/fapi/v1/exchangeInfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance API error: %d", resp.StatusCode)
	}

	var info ExchangeInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}

	var active []string
	for _, s := range info.Symbols {
		if s.Status == "TRADING" {
			active = append(active, s.Symbol)
		}
	}
	return active, nil
}

// Bars returns the last count *closed* candles, most recent first. Binance
// sends klines oldest first with the still-forming candle last; that forming
// candle is dropped before reversing.
func (c *Client) Bars(symbol, timeframe string, count int) (domain.BarSeries, error) {
	// Request one extra kline to cover the forming candle we discard.
	url := fmt.Sprintf("%s/fapi/v1/klines?symbol=%s&interval=%s&limit=%d",
		FapiBaseURL, symbol, timeframe, count+1)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance API error: %d", resp.StatusCode)
	}

	var klines [][]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&klines); err != nil {
		return nil, err
	}

	if len(klines) > 0 {
		klines = klines[:len(klines)-1] // drop the forming candle
	}
	if len(klines) > count {
		klines = klines[len(klines)-count:]
	}

	series := make(domain.BarSeries, 0, len(klines))
	for i := len(klines) - 1; i >= 0; i-- {
		bar, err := parseKline(klines[i])
		if err != nil {
			return nil, fmt.Errorf("malformed kline for %s: %w", symbol, err)
		}
		series = append(series, bar)
	}
	return series, nil
}

// BestPrice returns the current best bid and ask from the order book ticker.
func (c *Client) BestPrice(symbol string) (float64, float64, error) {
	url := fmt.Sprintf("%s/fapi/v1/ticker/bookTicker?symbol=%s", FapiBaseURL, symbol)
	resp, err := c.httpClient.Get(url)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("binance API error: %d", resp.StatusCode)
	}

	var book struct {
		BidPrice string `json:"bidPrice"`
		AskPrice string `json:"askPrice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return 0, 0, err
	}

	bid, err := strconv.ParseFloat(book.BidPrice, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad bid price %q: %w", book.BidPrice, err)
	}
	ask, err := strconv.ParseFloat(book.AskPrice, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad ask price %q: %w", book.AskPrice, err)
	}
	return bid, ask, nil
}

// parseKline converts one raw Binance kline row:
// [open_time, open, high, low, close, volume, ...]
func parseKline(raw []interface{}) (domain.Bar, error) {
	if len(raw) < 6 {
		return domain.Bar{}, fmt.Errorf("kline has %d fields", len(raw))
	}

	openTimeMs, ok := raw[0].(float64)
	if !ok {
		return domain.Bar{}, fmt.Errorf("bad open time %v", raw[0])
	}

	fields := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := raw[i].(string)
		if !ok {
			return domain.Bar{}, fmt.Errorf("bad field %d: %v", i, raw[i])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.Bar{}, err
		}
		fields[i-1] = v
	}

	return domain.Bar{
		OpenTime: time.UnixMilli(int64(openTimeMs)).UTC(),
		Open:     fields[0],
		High:     fields[1],
		Low:      fields[2],
		Close:    fields[3],
		Volume:   fields[4],
	}, nil
}
