package repository

import (
	"errors"
	"sort"
	"sync"
	"time"

	"signals-backend/internal/domain"
)

// IntentRepository is the in-memory TradeIntentRepository used when no
// database is configured.
type IntentRepository struct {
	intents map[string]*domain.TradeIntent
	mu      sync.RWMutex
}

func NewIntentRepository() *IntentRepository {
	return &IntentRepository{
		intents: make(map[string]*domain.TradeIntent),
	}
}

func (r *IntentRepository) Create(intent *domain.TradeIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.intents[intent.ID]; exists {
		return errors.New("intent already exists")
	}

	stored := *intent
	r.intents[intent.ID] = &stored
	return nil
}

func (r *IntentRepository) GetActive() []*domain.TradeIntent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.TradeIntent
	for _, intent := range r.intents {
		if intent.Status == "ACTIVE" {
			copied := *intent
			out = append(out, &copied)
		}
	}
	sortByCreated(out)
	return out
}

func (r *IntentRepository) GetByID(id string) (*domain.TradeIntent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intent, ok := r.intents[id]
	if !ok {
		return nil, errors.New("intent not found")
	}

	copied := *intent
	return &copied, nil
}

func (r *IntentRepository) Update(intent *domain.TradeIntent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.intents[intent.ID]; !exists {
		return errors.New("intent not found")
	}

	stored := *intent
	r.intents[intent.ID] = &stored
	return nil
}

func (r *IntentRepository) GetHistory(fromTime time.Time) []*domain.TradeIntent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.TradeIntent
	for _, intent := range r.intents {
		if intent.CreatedAt.Before(fromTime) {
			continue
		}
		copied := *intent
		out = append(out, &copied)
	}
	sortByCreated(out)
	return out
}

func (r *IntentRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.intents, id)
	return nil
}

// sortByCreated orders newest first for display.
func sortByCreated(intents []*domain.TradeIntent) {
	sort.Slice(intents, func(i, j int) bool {
		return intents[i].CreatedAt.After(intents[j].CreatedAt)
	})
}

var _ domain.TradeIntentRepository = (*IntentRepository)(nil)
