package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RankedEntry is one member of a ranking slice, highest scores first.
type RankedEntry struct {
	Fid   int64
	Score int
}

func leaderboardKey(tier string) string {
	return fmt.Sprintf("leaderboard:%s", tier)
}

func profileKey(fid int64) string {
	return fmt.Sprintf("user:%d", fid)
}

func rateKey(fid int64) string {
	return fmt.Sprintf("rate:user:%d:last", fid)
}

// BestScore returns the stored best score for a player in a tier's ranking.
// The second return is false when the player has no entry yet.
func (c *Client) BestScore(ctx context.Context, tier string, fid int64) (int, bool, error) {
	score, err := c.ZScore(ctx, leaderboardKey(tier), strconv.FormatInt(fid, 10)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get best score: %w", err)
	}
	return int(score), true, nil
}

// RecordScore writes a player's score into the tier ranking. ZADD GT keeps
// the stored value monotonically non-decreasing even if two accepted
// submissions race past the read gate.
func (c *Client) RecordScore(ctx context.Context, tier string, fid int64, score int) error {
	err := c.ZAddGT(ctx, leaderboardKey(tier), redis.Z{
		Score:  float64(score),
		Member: strconv.FormatInt(fid, 10),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}
	return nil
}

// RankingPage returns a descending slice of the tier ranking,
// [offset, offset+count).
func (c *Client) RankingPage(ctx context.Context, tier string, offset, count int64) ([]RankedEntry, error) {
	members, err := c.ZRevRangeWithScores(ctx, leaderboardKey(tier), offset, offset+count-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking page: %w", err)
	}

	entries := make([]RankedEntry, 0, len(members))
	for _, member := range members {
		fid, err := strconv.ParseInt(fmt.Sprint(member.Member), 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, RankedEntry{Fid: fid, Score: int(member.Score)})
	}
	return entries, nil
}

// RankingSize returns the number of players in a tier ranking.
func (c *Client) RankingSize(ctx context.Context, tier string) (int64, error) {
	count, err := c.ZCard(ctx, leaderboardKey(tier)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get ranking size: %w", err)
	}
	return count, nil
}

// SaveProfile upserts the cached display name for a player.
func (c *Client) SaveProfile(ctx context.Context, fid int64, username string) error {
	fields := map[string]any{
		"fid":      strconv.FormatInt(fid, 10),
		"username": username,
	}
	if err := c.HSet(ctx, profileKey(fid), fields).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// GetUsername returns the cached display name for a player, or "" if none.
func (c *Client) GetUsername(ctx context.Context, fid int64) (string, error) {
	username, err := c.HGet(ctx, profileKey(fid), "username").Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get username: %w", err)
	}
	return username, nil
}

// LastSubmitAt returns the epoch millis of the player's last throttled
// submission, or zero if the marker has expired.
func (c *Client) LastSubmitAt(ctx context.Context, fid int64) (int64, error) {
	value, err := c.Get(ctx, rateKey(fid)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get rate marker: %w", err)
	}
	at, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, nil
	}
	return at, nil
}

// TouchSubmit sets the player's rate-limit marker.
func (c *Client) TouchSubmit(ctx context.Context, fid int64, at int64, ttl time.Duration) error {
	if err := c.Set(ctx, rateKey(fid), strconv.FormatInt(at, 10), ttl).Err(); err != nil {
		return fmt.Errorf("failed to set rate marker: %w", err)
	}
	return nil
}
