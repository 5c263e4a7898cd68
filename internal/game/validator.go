package game

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/mathblitz/api/internal/store"
)

const (
	// Minimum gap between accepted submissions per player.
	rateLimitWindow = 1000 * time.Millisecond
	// The marker only needs to outlive the window it enforces.
	rateMarkerTTL = 2 * time.Second

	maxDisplayNameRunes = 32
)

// ScoreStore is the slice of the store the validator and reader need.
type ScoreStore interface {
	BestScore(ctx context.Context, tier string, fid int64) (int, bool, error)
	RecordScore(ctx context.Context, tier string, fid int64, score int) error
	RankingPage(ctx context.Context, tier string, offset, count int64) ([]store.RankedEntry, error)
	RankingSize(ctx context.Context, tier string) (int64, error)
	SaveProfile(ctx context.Context, fid int64, username string) error
	GetUsername(ctx context.Context, fid int64) (string, error)
	LastSubmitAt(ctx context.Context, fid int64) (int64, error)
	TouchSubmit(ctx context.Context, fid int64, at int64, ttl time.Duration) error
}

// AuditLog archives accepted submissions. Failures must not affect the
// submission outcome.
type AuditLog interface {
	RecordSubmission(ctx context.Context, fid int64, tier string, score int, recorded bool, elapsedMs int64) error
}

// Submission is one score-submission payload. Transient: validated, then
// discarded.
type Submission struct {
	Fid             int64
	DisplayName     string
	Score           int
	ClientTimestamp int64
	SessionID       string
	Tier            string
	Signature       string
}

// Result is the validator's decision. Accepted means the submission proved
// itself genuine; Recorded means it was also a new best and changed the
// ranking.
type Result struct {
	Accepted bool
	Recorded bool
	Reason   string
}

// Validator applies the ordered submission checks and conditionally updates
// the ranking.
type Validator struct {
	sessions SessionStore
	scores   ScoreStore
	audit    AuditLog // optional
	now      func() time.Time
}

func NewValidator(sessions SessionStore, scores ScoreStore, audit AuditLog) *Validator {
	return &Validator{sessions: sessions, scores: scores, audit: audit, now: time.Now}
}

func reject(reason string) *Result {
	return &Result{Accepted: false, Recorded: false, Reason: reason}
}

// Validate runs the check chain against one submission. A (nil, error)
// return means the store failed mid-flight; every validation outcome comes
// back as a Result with a nil error. Check order matters: later checks
// assume earlier ones passed, and rejecting early avoids store reads.
func (v *Validator) Validate(ctx context.Context, sub *Submission) (*Result, error) {
	now := v.now().UnixMilli()

	// Tier resolves first: the score cap and timing floor depend on it.
	tier, ok := LookupTier(sub.Tier)
	if !ok {
		return reject(ReasonUnknownTier), nil
	}

	if sub.Score < 0 || sub.Score > tier.ScoreCap {
		return reject(ReasonInvalidScore), nil
	}

	// Absence is always rejection, never an anonymous fallback.
	session, err := v.sessions.GetSession(ctx, sub.SessionID)
	if errors.Is(err, store.ErrSessionNotFound) {
		return reject(ReasonInvalidSession), nil
	}
	if err != nil {
		return nil, err
	}

	if session.Fid != sub.Fid {
		return reject(ReasonIdentityMismatch), nil
	}

	if session.Tier != tier.Name {
		return reject(ReasonTierMismatch), nil
	}

	// Cheap early read; the terminal mark-used below is the atomic one.
	if session.Used {
		return reject(ReasonSessionReplay), nil
	}

	if now-session.CreatedAt > SessionTTL.Milliseconds() {
		return reject(ReasonSessionExpired), nil
	}

	if !VerifySignature(session.Secret, sub.Fid, sub.Score, sub.ClientTimestamp, sub.Signature) {
		return reject(ReasonInvalidSignature), nil
	}

	// Scoring N points takes at least N questions at the fastest allowed
	// pace, measured against session age, not the client's clock.
	elapsed := now - session.CreatedAt
	if elapsed < int64(sub.Score)*tier.MinMillisPerPoint {
		return reject(ReasonImpossibleTiming), nil
	}

	lastSubmit, err := v.scores.LastSubmitAt(ctx, sub.Fid)
	if err != nil {
		return nil, err
	}
	if lastSubmit > 0 && now-lastSubmit < rateLimitWindow.Milliseconds() {
		return reject(ReasonRateLimited), nil
	}
	if err := v.scores.TouchSubmit(ctx, sub.Fid, now, rateMarkerTTL); err != nil {
		return nil, err
	}

	best, exists, err := v.scores.BestScore(ctx, tier.Name, sub.Fid)
	if err != nil {
		return nil, err
	}
	if exists && best >= sub.Score {
		consumed, err := v.sessions.ConsumeSession(ctx, sub.SessionID)
		if err != nil {
			return nil, err
		}
		if !consumed {
			return reject(ReasonSessionReplay), nil
		}
		result := &Result{Accepted: true, Recorded: false, Reason: ReasonLowerOrEqual}
		v.archive(ctx, sub, tier, result, elapsed)
		return result, nil
	}

	// Consume before writing: losing the race here means another request
	// with this session already reached a terminal outcome.
	consumed, err := v.sessions.ConsumeSession(ctx, sub.SessionID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return reject(ReasonSessionReplay), nil
	}

	if err := v.scores.SaveProfile(ctx, sub.Fid, SanitizeDisplayName(sub.DisplayName)); err != nil {
		return nil, err
	}
	if err := v.scores.RecordScore(ctx, tier.Name, sub.Fid, sub.Score); err != nil {
		return nil, err
	}

	result := &Result{Accepted: true, Recorded: true}
	v.archive(ctx, sub, tier, result, elapsed)
	return result, nil
}

// archive records the accepted submission for forensics, best effort.
func (v *Validator) archive(ctx context.Context, sub *Submission, tier Tier, result *Result, elapsedMs int64) {
	if v.audit == nil {
		return
	}
	if err := v.audit.RecordSubmission(ctx, sub.Fid, tier.Name, sub.Score, result.Recorded, elapsedMs); err != nil {
		log.Printf("[Validator] Failed to archive submission for fid %d: %v", sub.Fid, err)
	}
}

// SanitizeDisplayName treats the client-supplied name as untrusted: trims
// whitespace, strips control characters, caps the length.
func SanitizeDisplayName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	runes := []rune(name)
	if len(runes) > maxDisplayNameRunes {
		runes = runes[:maxDisplayNameRunes]
	}
	return string(runes)
}
