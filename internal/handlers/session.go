package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/mathblitz/api/internal/game"
	"github.com/mathblitz/api/internal/middleware"
)

type SessionHandler struct {
	issuer *game.Issuer
}

func NewSessionHandler(issuer *game.Issuer) *SessionHandler {
	return &SessionHandler{issuer: issuer}
}

// SessionRequest represents the session issuance request body
type SessionRequest struct {
	Identity int64  `json:"identity"`
	Tier     string `json:"tier,omitempty"`
}

// SessionResponse is the one and only place the session secret is sent.
type SessionResponse struct {
	SessionID   string `json:"sessionId"`
	Secret      string `json:"secret"`
	CreatedAt   int64  `json:"createdAt"`
	ExpiresInMs int64  `json:"expiresInMs"`
}

// Create issues a new single-use play session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	// A verified bearer token pins the identity regardless of the body.
	if claims, ok := middleware.GetUserClaims(r); ok {
		req.Identity = claims.Fid
	}

	if req.Identity <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Missing identity"})
		return
	}

	if req.Tier == "" {
		req.Tier = game.DefaultTier
	}
	tier, ok := game.LookupTier(req.Tier)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unknown tier"})
		return
	}

	issued, err := h.issuer.Issue(r.Context(), req.Identity, tier)
	if err != nil {
		log.Printf("[Session] Failed to issue session: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to issue session"})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(SessionResponse{
		SessionID:   issued.SessionID,
		Secret:      issued.Secret,
		CreatedAt:   issued.CreatedAt,
		ExpiresInMs: issued.ExpiresInMs,
	})
}
