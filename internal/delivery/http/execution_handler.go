package http

import (
	"encoding/json"
	"log"
	"net/http"

	"signals-backend/internal/domain"
	"signals-backend/internal/infrastructure/binance"
)

// ExecutionHandler handles exchange credential and execution settings
// endpoints.
type ExecutionHandler struct {
	store domain.ExecutionStore
}

func NewExecutionHandler(store domain.ExecutionStore) *ExecutionHandler {
	return &ExecutionHandler{store: store}
}

// SaveCredentials handles POST /api/execution/credentials
func (h *ExecutionHandler) SaveCredentials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		UserID    string `json:"userId"`
		APIKey    string `json:"apiKey"`
		SecretKey string `json:"secretKey"`
		IsTestnet bool   `json:"isTestnet"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.APIKey == "" || req.SecretKey == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	// Test connection before saving
	client := binance.NewTradingClient(req.APIKey, req.SecretKey, req.IsTestnet)
	if err := client.TestConnection(); err != nil {
		log.Printf("Binance API test failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "Invalid API credentials or connection failed",
			"details": err.Error(),
		})
		return
	}

	accountInfo, err := client.GetAccountInfo()
	if err != nil {
		http.Error(w, "Failed to get account info", http.StatusBadRequest)
		return
	}

	cred := &domain.ExecutionCredentials{
		UserID:    req.UserID,
		APIKey:    req.APIKey,
		SecretKey: req.SecretKey,
		IsTestnet: req.IsTestnet,
	}

	if err := h.store.SaveCredentials(cred); err != nil {
		http.Error(w, "Failed to save credentials", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":   "Credentials saved successfully",
		"balance":   accountInfo.UsdtBalance,
		"connected": true,
	})
}

// GetCredentials handles GET /api/execution/credentials?userId=xxx
func (h *ExecutionHandler) GetCredentials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "Missing userId", http.StatusBadRequest)
		return
	}

	cred, err := h.store.GetCredentials(userID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"exists": false,
		})
		return
	}

	// Don't return the secret key
	response := map[string]interface{}{
		"exists":    true,
		"userId":    cred.UserID,
		"apiKey":    cred.APIKey,
		"isTestnet": cred.IsTestnet,
		"createdAt": cred.CreatedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DeleteCredentials handles DELETE /api/execution/credentials?userId=xxx
func (h *ExecutionHandler) DeleteCredentials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "Missing userId", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteCredentials(userID); err != nil {
		http.Error(w, "Failed to delete credentials", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Credentials deleted successfully",
	})
}

// HandleSettings handles GET and POST /api/execution/settings
func (h *ExecutionHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			http.Error(w, "Missing userId", http.StatusBadRequest)
			return
		}

		settings, err := h.store.GetSettings(userID)
		if err != nil {
			http.Error(w, "Failed to get settings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(settings)

	case http.MethodPost:
		var settings domain.ExecutionSettings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if settings.UserID == "" {
			http.Error(w, "Missing userId", http.StatusBadRequest)
			return
		}
		if settings.Leverage < 1 {
			settings.Leverage = 1
		}
		if settings.Leverage > 20 {
			settings.Leverage = 20
		}
		if settings.RiskPercent <= 0 || settings.RiskPercent > 5 {
			settings.RiskPercent = 1.0
		}

		if err := h.store.SaveSettings(&settings); err != nil {
			http.Error(w, "Failed to save settings", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(settings)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
