package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/mathblitz/api/internal/game"
	"github.com/mathblitz/api/internal/middleware"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

type SubmitHandler struct {
	validator *game.Validator
}

func NewSubmitHandler(validator *game.Validator) *SubmitHandler {
	return &SubmitHandler{validator: validator}
}

// SubmitRequest represents the score submission request body
type SubmitRequest struct {
	Identity        int64  `json:"identity"`
	DisplayName     string `json:"displayName"`
	Score           int    `json:"score"`
	ClientTimestamp int64  `json:"clientTimestamp"`
	SessionID       string `json:"sessionId"`
	Tier            string `json:"tier,omitempty"`
	Signature       string `json:"signature"`
}

// SubmitResponse represents the validator decision
type SubmitResponse struct {
	Accepted bool   `json:"accepted"`
	Recorded bool   `json:"recorded"`
	Reason   string `json:"reason,omitempty"`
}

// Submit validates one score submission and conditionally records it
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	// A verified bearer token must agree with the claimed identity; the
	// signature binds to the claimed one either way.
	if claims, ok := middleware.GetUserClaims(r); ok && claims.Fid != req.Identity {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(SubmitResponse{Accepted: false, Reason: game.ReasonIdentityMismatch})
		return
	}

	if req.Tier == "" {
		req.Tier = game.DefaultTier
	}

	result, err := h.validator.Validate(r.Context(), &game.Submission{
		Fid:             req.Identity,
		DisplayName:     req.DisplayName,
		Score:           req.Score,
		ClientTimestamp: req.ClientTimestamp,
		SessionID:       req.SessionID,
		Tier:            req.Tier,
		Signature:       req.Signature,
	})
	if err != nil {
		log.Printf("[Submit] Store failure during validation: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
		return
	}

	w.WriteHeader(game.StatusForResult(result))
	json.NewEncoder(w).Encode(SubmitResponse{
		Accepted: result.Accepted,
		Recorded: result.Recorded,
		Reason:   result.Reason,
	})
}
