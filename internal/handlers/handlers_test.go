package handlers

import (
	"context"
	"time"

	"github.com/mathblitz/api/internal/store"
)

// fakeSessions is an in-memory game.SessionStore for handler tests.
type fakeSessions struct {
	sessions map[string]*store.PlaySession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[string]*store.PlaySession{}}
}

func (f *fakeSessions) SaveSession(ctx context.Context, session *store.PlaySession, ttl time.Duration) error {
	clone := *session
	f.sessions[session.ID] = &clone
	return nil
}

func (f *fakeSessions) GetSession(ctx context.Context, sessionID string) (*store.PlaySession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (f *fakeSessions) ConsumeSession(ctx context.Context, sessionID string) (bool, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.Used {
		return false, nil
	}
	session.Used = true
	return true, nil
}

// fakeScores is an in-memory game.ScoreStore for handler tests.
type fakeScores struct {
	best       map[int64]int
	usernames  map[int64]string
	lastSubmit map[int64]int64
}

func newFakeScores() *fakeScores {
	return &fakeScores{
		best:       map[int64]int{},
		usernames:  map[int64]string{},
		lastSubmit: map[int64]int64{},
	}
}

func (f *fakeScores) BestScore(ctx context.Context, tier string, fid int64) (int, bool, error) {
	best, ok := f.best[fid]
	return best, ok, nil
}

func (f *fakeScores) RecordScore(ctx context.Context, tier string, fid int64, score int) error {
	if current, ok := f.best[fid]; !ok || score > current {
		f.best[fid] = score
	}
	return nil
}

func (f *fakeScores) RankingPage(ctx context.Context, tier string, offset, count int64) ([]store.RankedEntry, error) {
	entries := rankedByScore(f.best)
	if offset >= int64(len(entries)) {
		return nil, nil
	}
	end := offset + count
	if end > int64(len(entries)) {
		end = int64(len(entries))
	}
	return entries[offset:end], nil
}

func (f *fakeScores) RankingSize(ctx context.Context, tier string) (int64, error) {
	return int64(len(f.best)), nil
}

func (f *fakeScores) SaveProfile(ctx context.Context, fid int64, username string) error {
	f.usernames[fid] = username
	return nil
}

func (f *fakeScores) GetUsername(ctx context.Context, fid int64) (string, error) {
	return f.usernames[fid], nil
}

func (f *fakeScores) LastSubmitAt(ctx context.Context, fid int64) (int64, error) {
	return f.lastSubmit[fid], nil
}

func (f *fakeScores) TouchSubmit(ctx context.Context, fid int64, at int64, ttl time.Duration) error {
	f.lastSubmit[fid] = at
	return nil
}

func rankedByScore(best map[int64]int) []store.RankedEntry {
	entries := make([]store.RankedEntry, 0, len(best))
	for fid, score := range best {
		entries = append(entries, store.RankedEntry{Fid: fid, Score: score})
	}
	// Descending by score, fid as tiebreaker for determinism.
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[j].Score > entries[i].Score ||
				(entries[j].Score == entries[i].Score && entries[j].Fid < entries[i].Fid) {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}
	return entries
}
