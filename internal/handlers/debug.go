package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/mathblitz/api/internal/store"
)

type DebugHandler struct {
	store *store.Client
}

func NewDebugHandler(client *store.Client) *DebugHandler {
	return &DebugHandler{store: client}
}

// Ping verifies store connectivity with a set/get round-trip
func (h *DebugHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	value, err := h.store.PingRoundTrip(r.Context())
	if err != nil {
		log.Printf("[Debug] Store round-trip failed: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Store unavailable"})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"ok":    true,
		"value": value,
	})
}
