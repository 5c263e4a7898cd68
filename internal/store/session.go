package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// PlaySession is one short-lived, single-use play credential stored as a
// Redis hash under session:<id>.
type PlaySession struct {
	ID        string
	Fid       int64
	Secret    string
	CreatedAt int64 // epoch millis
	Used      bool
	Tier      string
}

// ErrSessionNotFound is returned when a session id has no stored record,
// whether it never existed or already expired out of the store.
var ErrSessionNotFound = fmt.Errorf("session not found")

// consumeScript flips used from "0" to "1" atomically. Returns 1 if this
// caller consumed the session, 0 if it was already used, -1 if the key is
// gone. Separate read-then-write calls would race between two submissions
// carrying the same session id.
var consumeScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
if redis.call("HGET", KEYS[1], "used") == "1" then
	return 0
end
redis.call("HSET", KEYS[1], "used", "1")
return 1
`)

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// SaveSession stores a new session hash with the given TTL.
func (c *Client) SaveSession(ctx context.Context, session *PlaySession, ttl time.Duration) error {
	key := sessionKey(session.ID)

	fields := map[string]any{
		"fid":       strconv.FormatInt(session.Fid, 10),
		"secret":    session.Secret,
		"createdAt": strconv.FormatInt(session.CreatedAt, 10),
		"used":      "0",
		"tier":      session.Tier,
	}

	if err := c.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	// Store-level TTL is cleanup only; the validator re-checks createdAt.
	if err := c.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session TTL: %w", err)
	}

	return nil
}

// GetSession retrieves a session hash. Returns ErrSessionNotFound when the
// key is missing or empty.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*PlaySession, error) {
	fields, err := c.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	fid, err := strconv.ParseInt(fields["fid"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session fid: %w", err)
	}
	createdAt, err := strconv.ParseInt(fields["createdAt"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session createdAt: %w", err)
	}

	return &PlaySession{
		ID:        sessionID,
		Fid:       fid,
		Secret:    fields["secret"],
		CreatedAt: createdAt,
		Used:      fields["used"] == "1",
		Tier:      fields["tier"],
	}, nil
}

// ConsumeSession atomically marks a session used. Returns true if this call
// won the consume, false if the session was already used or has expired.
func (c *Client) ConsumeSession(ctx context.Context, sessionID string) (bool, error) {
	result, err := consumeScript.Run(ctx, c.Client, []string{sessionKey(sessionID)}).Int()
	if err != nil {
		return false, fmt.Errorf("failed to consume session: %w", err)
	}
	return result == 1, nil
}
