package usecase

import (
	"fmt"
	"log"
	"sync"
	"time"

	"signals-backend/internal/domain"
	"signals-backend/internal/infrastructure/fcm"
	"signals-backend/internal/repository"
)

// FCMNotifier pushes emitted intents to registered devices with a per-symbol
// cooldown so a choppy market cannot spam phones.
type FCMNotifier struct {
	client    *fcm.Client
	tokenRepo *repository.TokenRepository

	cooldown time.Duration
	mu       sync.Mutex
	notified map[string]time.Time // symbol -> last notification
}

func NewFCMNotifier(client *fcm.Client, tokenRepo *repository.TokenRepository) *FCMNotifier {
	return &FCMNotifier{
		client:    client,
		tokenRepo: tokenRepo,
		cooldown:  5 * time.Minute,
		notified:  make(map[string]time.Time),
	}
}

// NotifyIntent sends a push notification for a freshly emitted intent.
func (n *FCMNotifier) NotifyIntent(intent *domain.TradeIntent) {
	if n.client == nil || !n.client.IsEnabled() {
		return // FCM not configured
	}

	tokens := n.tokenRepo.GetAllTokens()
	if len(tokens) == 0 {
		return // No registered devices
	}

	now := time.Now()

	n.mu.Lock()
	last, seen := n.notified[intent.Symbol]
	if seen && now.Sub(last) < n.cooldown {
		n.mu.Unlock()
		return // Skip, still in cooldown
	}
	// Cleanup old entries while we hold the lock
	for symbol, ts := range n.notified {
		if now.Sub(ts) > n.cooldown*2 {
			delete(n.notified, symbol)
		}
	}
	n.mu.Unlock()

	displaySymbol := intent.Symbol
	if len(displaySymbol) > 4 {
		displaySymbol = displaySymbol[:len(displaySymbol)-4] // Remove "USDT"
	}

	emoji := "🟢"
	if intent.Direction == domain.DirectionShort {
		emoji = "🔴"
	}
	title := fmt.Sprintf("%s %s %s Signal", emoji, displaySymbol, intent.Direction)
	body := fmt.Sprintf("Entry: $%.5f | SL: $%.5f | TP: $%.5f | %s",
		intent.EntryPrice, intent.StopLoss, intent.TakeProfit, intent.Source)

	data := map[string]string{
		"intentId":  intent.ID,
		"symbol":    intent.Symbol,
		"direction": string(intent.Direction),
		"entry":     fmt.Sprintf("%.5f", intent.EntryPrice),
		"stopLoss":  fmt.Sprintf("%.5f", intent.StopLoss),
		"target":    fmt.Sprintf("%.5f", intent.TakeProfit),
		"source":    intent.Source,
	}

	if err := n.client.SendMulticast(tokens, title, body, data); err != nil {
		log.Printf("Error sending notification for %s: %v", intent.Symbol, err)
		return
	}

	log.Printf("Sent notification for %s to %d devices", intent.Symbol, len(tokens))

	n.mu.Lock()
	n.notified[intent.Symbol] = now
	n.mu.Unlock()
}
