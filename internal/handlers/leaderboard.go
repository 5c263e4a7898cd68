package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/mathblitz/api/internal/game"
)

type LeaderboardHandler struct {
	reader *game.Reader
}

func NewLeaderboardHandler(reader *game.Reader) *LeaderboardHandler {
	return &LeaderboardHandler{reader: reader}
}

// LeaderboardRow is one displayed ranking entry
type LeaderboardRow struct {
	Identity    int64  `json:"identity"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	AvatarURL   string `json:"avatarUrl"`
}

// LeaderboardResponse represents one page of the ranking
type LeaderboardResponse struct {
	Page        int              `json:"page"`
	Pages       int              `json:"pages"`
	Leaderboard []LeaderboardRow `json:"leaderboard"`
}

// GetLeaderboard returns one descending page of a tier's ranking
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	page := 1
	if value := r.URL.Query().Get("page"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			page = parsed
		}
	}

	tierName := r.URL.Query().Get("tier")
	if tierName == "" {
		tierName = game.DefaultTier
	}
	tier, ok := game.LookupTier(tierName)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unknown tier"})
		return
	}

	result, err := h.reader.GetPage(r.Context(), tier, page)
	if err != nil {
		log.Printf("[Leaderboard] Failed to read page %d: %v", page, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to read leaderboard"})
		return
	}

	rows := make([]LeaderboardRow, 0, len(result.Entries))
	for _, entry := range result.Entries {
		rows = append(rows, LeaderboardRow{
			Identity:    entry.Fid,
			DisplayName: entry.DisplayName,
			Score:       entry.Score,
			AvatarURL:   entry.AvatarURL,
		})
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(LeaderboardResponse{
		Page:        result.Page,
		Pages:       result.Pages,
		Leaderboard: rows,
	})
}
