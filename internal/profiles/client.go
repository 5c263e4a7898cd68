package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// User is one entry from the external profile directory.
type User struct {
	Fid       int64  `json:"fid"`
	Username  string `json:"username"`
	AvatarURL string `json:"pfp_url"`
}

// Config holds profile directory configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// LoadConfigFromEnv loads profile directory configuration from environment
// variables. An empty PROFILE_API_URL disables the directory.
func LoadConfigFromEnv() *Config {
	timeout := 3 * time.Second
	if value := os.Getenv("PROFILE_API_TIMEOUT"); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			timeout = parsed
		}
	}
	return &Config{
		BaseURL: os.Getenv("PROFILE_API_URL"),
		APIKey:  os.Getenv("PROFILE_API_KEY"),
		Timeout: timeout,
	}
}

// Client looks up display names and avatars from the social host's user
// directory. All lookups are best effort; callers degrade to placeholders.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a profile directory client. Returns nil when no base
// URL is configured; callers treat a nil client as a disabled directory.
func NewClient(config *Config) *Client {
	if config.BaseURL == "" {
		return nil
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type bulkUsersResponse struct {
	Users []User `json:"users"`
}

// BulkByFids fetches directory entries for a list of identities in one
// request. Missing identities are simply absent from the result map.
func (c *Client) BulkByFids(ctx context.Context, fids []int64) (map[int64]User, error) {
	if c == nil || len(fids) == 0 {
		return map[int64]User{}, nil
	}

	ids := make([]string, len(fids))
	for i, fid := range fids {
		ids[i] = strconv.FormatInt(fid, 10)
	}

	endpoint := fmt.Sprintf("%s/v2/farcaster/user/bulk?fids=%s", c.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile lookup returned status %d", resp.StatusCode)
	}

	var decoded bulkUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	users := make(map[int64]User, len(decoded.Users))
	for _, user := range decoded.Users {
		users[user.Fid] = user
	}
	return users, nil
}
