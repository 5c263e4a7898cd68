package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mathblitz/api/internal/store"
)

// SessionTTL bounds how long an issued session can be submitted against.
// The store expiry is cleanup; the validator's age check is authoritative.
const SessionTTL = 120 * time.Second

// SessionStore is the slice of the store the issuer and validator need.
type SessionStore interface {
	SaveSession(ctx context.Context, session *store.PlaySession, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*store.PlaySession, error)
	ConsumeSession(ctx context.Context, sessionID string) (bool, error)
}

// IssuedSession is what the client receives; the secret is never returned
// anywhere else.
type IssuedSession struct {
	SessionID   string
	Secret      string
	CreatedAt   int64
	ExpiresInMs int64
}

// Issuer creates single-use play sessions.
type Issuer struct {
	sessions SessionStore
	now      func() time.Time
}

func NewIssuer(sessions SessionStore) *Issuer {
	return &Issuer{sessions: sessions, now: time.Now}
}

// Issue creates a session bound to a player identity and tier. Every call
// creates a fresh, independent session.
func (i *Issuer) Issue(ctx context.Context, fid int64, tier Tier) (*IssuedSession, error) {
	secret, err := randomSecret(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}

	session := &store.PlaySession{
		ID:        uuid.NewString(),
		Fid:       fid,
		Secret:    secret,
		CreatedAt: i.now().UnixMilli(),
		Tier:      tier.Name,
	}

	if err := i.sessions.SaveSession(ctx, session, SessionTTL); err != nil {
		return nil, err
	}

	return &IssuedSession{
		SessionID:   session.ID,
		Secret:      secret,
		CreatedAt:   session.CreatedAt,
		ExpiresInMs: SessionTTL.Milliseconds(),
	}, nil
}

// randomSecret returns length random bytes, hex encoded.
func randomSecret(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
