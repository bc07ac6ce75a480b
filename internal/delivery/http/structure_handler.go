package http

import (
	"encoding/json"
	"net/http"

	"signals-backend/internal/domain"
	"signals-backend/internal/usecase"
)

// StructureHandler serves the latest per-symbol structure snapshots.
type StructureHandler struct {
	snaps  domain.SnapshotRepository
	engine *usecase.StructureEngine
}

func NewStructureHandler(snaps domain.SnapshotRepository, engine *usecase.StructureEngine) *StructureHandler {
	return &StructureHandler{snaps: snaps, engine: engine}
}

// HandleGetStructure handles GET /api/structure and GET /api/structure?symbol=xxx
func (h *StructureHandler) HandleGetStructure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		snap, ok := h.snaps.Get(symbol)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "symbol not scanned"})
			return
		}
		json.NewEncoder(w).Encode(snap)
		return
	}

	json.NewEncoder(w).Encode(h.snaps.GetAll())
}

// HandleGetEngineConfig handles GET /api/engine/config
func (h *StructureHandler) HandleGetEngineConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := h.engine.Config()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"timeframe":         cfg.Timeframe,
		"lowerTimeframe":    cfg.LowerTimeframe,
		"anchorTimeframe":   cfg.AnchorTimeframe,
		"windowSize":        cfg.WindowSize,
		"tolerancePct":      cfg.TolerancePct,
		"mergeDistancePct":  cfg.MergeDistancePct,
		"momentumCandles":   cfg.MomentumCandles,
		"requireConfluence": cfg.RequireConfluence,
		"rewardMultiple":    cfg.RewardMultiple,
		"riskPercent":       cfg.RiskPercent,
		"scanInterval":      cfg.ScanInterval.String(),
	})
}
