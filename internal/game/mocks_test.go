package game

import (
	"context"
	"time"

	"github.com/mathblitz/api/internal/store"
)

// mockSessions is a hand-rolled SessionStore for tests.
type mockSessions struct {
	session    *store.PlaySession
	getErr     error
	getCalls   int
	saved      *store.PlaySession
	savedTTL   time.Duration
	saveErr    error
	consumeOK  bool
	consumeErr error
	consumed   bool
}

func (m *mockSessions) SaveSession(ctx context.Context, session *store.PlaySession, ttl time.Duration) error {
	m.saved = session
	m.savedTTL = ttl
	return m.saveErr
}

func (m *mockSessions) GetSession(ctx context.Context, sessionID string) (*store.PlaySession, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.session == nil || m.session.ID != sessionID {
		return nil, store.ErrSessionNotFound
	}
	clone := *m.session
	return &clone, nil
}

func (m *mockSessions) ConsumeSession(ctx context.Context, sessionID string) (bool, error) {
	m.consumed = true
	if m.consumeErr != nil {
		return false, m.consumeErr
	}
	return m.consumeOK, nil
}

// mockScores is a hand-rolled ScoreStore for tests.
type mockScores struct {
	best          map[int64]int
	bestErr       error
	bestCalls     int
	recordedFid   int64
	recordedScore int
	recordCalls   int
	recordErr     error
	ranking       []store.RankedEntry
	rankingErr    error
	usernames     map[int64]string
	savedProfiles map[int64]string
	lastSubmit    int64
	lastErr       error
	rateCalls     int
	touchedAt     int64
	touchedTTL    time.Duration
	touchErr      error
}

func (m *mockScores) BestScore(ctx context.Context, tier string, fid int64) (int, bool, error) {
	m.bestCalls++
	if m.bestErr != nil {
		return 0, false, m.bestErr
	}
	best, ok := m.best[fid]
	return best, ok, nil
}

func (m *mockScores) RecordScore(ctx context.Context, tier string, fid int64, score int) error {
	m.recordCalls++
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recordedFid = fid
	m.recordedScore = score
	return nil
}

func (m *mockScores) RankingPage(ctx context.Context, tier string, offset, count int64) ([]store.RankedEntry, error) {
	if m.rankingErr != nil {
		return nil, m.rankingErr
	}
	if offset >= int64(len(m.ranking)) {
		return nil, nil
	}
	end := offset + count
	if end > int64(len(m.ranking)) {
		end = int64(len(m.ranking))
	}
	return m.ranking[offset:end], nil
}

func (m *mockScores) RankingSize(ctx context.Context, tier string) (int64, error) {
	if m.rankingErr != nil {
		return 0, m.rankingErr
	}
	return int64(len(m.ranking)), nil
}

func (m *mockScores) SaveProfile(ctx context.Context, fid int64, username string) error {
	if m.savedProfiles == nil {
		m.savedProfiles = map[int64]string{}
	}
	m.savedProfiles[fid] = username
	return nil
}

func (m *mockScores) GetUsername(ctx context.Context, fid int64) (string, error) {
	return m.usernames[fid], nil
}

func (m *mockScores) LastSubmitAt(ctx context.Context, fid int64) (int64, error) {
	m.rateCalls++
	if m.lastErr != nil {
		return 0, m.lastErr
	}
	return m.lastSubmit, nil
}

func (m *mockScores) TouchSubmit(ctx context.Context, fid int64, at int64, ttl time.Duration) error {
	m.touchedAt = at
	m.touchedTTL = ttl
	return m.touchErr
}

// mockAudit records archive calls.
type mockAudit struct {
	calls    int
	err      error
	recorded bool
}

func (m *mockAudit) RecordSubmission(ctx context.Context, fid int64, tier string, score int, recorded bool, elapsedMs int64) error {
	m.calls++
	m.recorded = recorded
	return m.err
}
