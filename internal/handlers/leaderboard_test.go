package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathblitz/api/internal/game"
)

func TestGetLeaderboard(t *testing.T) {
	t.Parallel()

	scores := newFakeScores()
	for fid := int64(1); fid <= 25; fid++ {
		scores.best[fid] = int(100 - fid)
		scores.usernames[fid] = "player"
	}
	handler := NewLeaderboardHandler(game.NewReader(scores, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	rec := httptest.NewRecorder()
	handler.GetLeaderboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LeaderboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, resp.Pages)
	require.Len(t, resp.Leaderboard, 20)
	assert.Equal(t, int64(1), resp.Leaderboard[0].Identity, "highest score first")
	assert.Equal(t, 99, resp.Leaderboard[0].Score)

	req = httptest.NewRequest(http.MethodGet, "/api/leaderboard?page=2", nil)
	rec = httptest.NewRecorder()
	handler.GetLeaderboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Len(t, resp.Leaderboard, 5)
}

func TestGetLeaderboard_BadPageDefaultsToFirst(t *testing.T) {
	t.Parallel()

	scores := newFakeScores()
	scores.best[1] = 50
	handler := NewLeaderboardHandler(game.NewReader(scores, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?page=banana", nil)
	rec := httptest.NewRecorder()
	handler.GetLeaderboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LeaderboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Page)
}

func TestGetLeaderboard_UnknownTier(t *testing.T) {
	t.Parallel()

	handler := NewLeaderboardHandler(game.NewReader(newFakeScores(), nil))

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard?tier=casual", nil)
	rec := httptest.NewRecorder()
	handler.GetLeaderboard(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLeaderboard_UnknownNameFallback(t *testing.T) {
	t.Parallel()

	scores := newFakeScores()
	scores.best[7] = 42 // no username cached
	handler := NewLeaderboardHandler(game.NewReader(scores, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	rec := httptest.NewRecorder()
	handler.GetLeaderboard(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LeaderboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Leaderboard, 1)
	assert.Equal(t, game.UnknownDisplayName, resp.Leaderboard[0].DisplayName)
	assert.Equal(t, game.PlaceholderAvatarURL, resp.Leaderboard[0].AvatarURL)
}
