package game

import (
	"context"
	"log"

	"github.com/mathblitz/api/internal/profiles"
)

// PageSize is the fixed number of entries per leaderboard page.
const PageSize = 20

// UnknownDisplayName is shown for players with no cached profile.
const UnknownDisplayName = "Unknown"

// PlaceholderAvatarURL is used when the directory has no avatar for a
// player or the lookup fails outright.
const PlaceholderAvatarURL = "/avatar-placeholder.png"

// ProfileDirectory is the best-effort external lookup joined into
// leaderboard pages.
type ProfileDirectory interface {
	BulkByFids(ctx context.Context, fids []int64) (map[int64]profiles.User, error)
}

// LeaderboardEntry is one ranked row, ready for display.
type LeaderboardEntry struct {
	Fid         int64
	DisplayName string
	Score       int
	AvatarURL   string
}

// LeaderboardPage is one descending slice of a tier's ranking.
type LeaderboardPage struct {
	Page    int
	Pages   int
	Entries []LeaderboardEntry
}

// Reader serves paginated leaderboard reads. Pure read path, safe to call
// unauthenticated and repeatedly.
type Reader struct {
	scores    ScoreStore
	directory ProfileDirectory // optional
}

func NewReader(scores ScoreStore, directory ProfileDirectory) *Reader {
	return &Reader{scores: scores, directory: directory}
}

// GetPage reads one page of a tier's ranking, highest scores first, and
// joins in cached display names and directory avatars. Page numbers are
// 1-based; out-of-range pages come back empty rather than failing.
func (r *Reader) GetPage(ctx context.Context, tier Tier, page int) (*LeaderboardPage, error) {
	if page < 1 {
		page = 1
	}

	offset := int64(page-1) * PageSize
	ranked, err := r.scores.RankingPage(ctx, tier.Name, offset, PageSize)
	if err != nil {
		return nil, err
	}

	total, err := r.scores.RankingSize(ctx, tier.Name)
	if err != nil {
		return nil, err
	}

	pages := int((total + PageSize - 1) / PageSize)
	if pages < 1 {
		pages = 1
	}

	fids := make([]int64, len(ranked))
	for i, entry := range ranked {
		fids[i] = entry.Fid
	}
	directory := r.lookupDirectory(ctx, fids)

	entries := make([]LeaderboardEntry, 0, len(ranked))
	for _, member := range ranked {
		entry := LeaderboardEntry{
			Fid:       member.Fid,
			Score:     member.Score,
			AvatarURL: PlaceholderAvatarURL,
		}

		username, err := r.scores.GetUsername(ctx, member.Fid)
		if err != nil {
			return nil, err
		}
		entry.DisplayName = username

		if user, ok := directory[member.Fid]; ok {
			if entry.DisplayName == "" {
				entry.DisplayName = user.Username
			}
			if user.AvatarURL != "" {
				entry.AvatarURL = user.AvatarURL
			}
		}
		if entry.DisplayName == "" {
			entry.DisplayName = UnknownDisplayName
		}

		entries = append(entries, entry)
	}

	return &LeaderboardPage{Page: page, Pages: pages, Entries: entries}, nil
}

// lookupDirectory fetches directory profiles for a page of fids. Never
// fails the surrounding read: on error the page degrades to placeholders.
func (r *Reader) lookupDirectory(ctx context.Context, fids []int64) map[int64]profiles.User {
	if r.directory == nil || len(fids) == 0 {
		return map[int64]profiles.User{}
	}
	users, err := r.directory.BulkByFids(ctx, fids)
	if err != nil {
		log.Printf("[Leaderboard] Profile directory lookup failed: %v", err)
		return map[int64]profiles.User{}
	}
	return users
}
