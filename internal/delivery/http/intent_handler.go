package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"signals-backend/internal/domain"
)

// IntentHandler serves emitted trade intents.
type IntentHandler struct {
	intents domain.TradeIntentRepository
}

func NewIntentHandler(intents domain.TradeIntentRepository) *IntentHandler {
	return &IntentHandler{intents: intents}
}

// HandleGetActive handles GET /api/intents
func (h *IntentHandler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	active := h.intents.GetActive()
	if active == nil {
		active = []*domain.TradeIntent{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(active)
}

// HandleGetHistory handles GET /api/intents/history?hours=24
func (h *IntentHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			hours = parsed
		}
	}

	history := h.intents.GetHistory(time.Now().Add(-time.Duration(hours) * time.Hour))
	if history == nil {
		history = []*domain.TradeIntent{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

// HandleCloseIntent handles POST /api/intents/close
func (h *IntentHandler) HandleCloseIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID        string  `json:"id"`
		ExitPrice float64 `json:"exitPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "Missing intent id", http.StatusBadRequest)
		return
	}

	intent, err := h.intents.GetByID(req.ID)
	if err != nil {
		http.Error(w, "Intent not found", http.StatusNotFound)
		return
	}

	now := time.Now()
	intent.Status = "CLOSED"
	intent.ExitPrice = &req.ExitPrice
	intent.ExitTime = &now
	intent.ExitReason = "MANUAL"

	if err := h.intents.Update(intent); err != nil {
		http.Error(w, "Failed to close intent", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(intent)
}
