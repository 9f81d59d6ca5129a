package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// SupabaseClient verifies Supabase access tokens. Verified tokens are
// cached for cacheTTL to keep polling clients off the auth server.
type SupabaseClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]cachedUser
}

type SupabaseUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type cachedUser struct {
	user    SupabaseUser
	expires time.Time
}

const (
	cacheTTL     = time.Minute
	maxCacheSize = 4096
)

func NewSupabaseClient(baseURL, anonKey string) *SupabaseClient {
	return &SupabaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		now:   time.Now,
		cache: make(map[string]cachedUser),
	}
}

func (c *SupabaseClient) VerifyAccessToken(ctx context.Context, accessToken string) (SupabaseUser, error) {
	if user, ok := c.cached(accessToken); ok {
		return user, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return SupabaseUser{}, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SupabaseUser{}, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return SupabaseUser{}, fmt.Errorf("verify token status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var user SupabaseUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return SupabaseUser{}, fmt.Errorf("decode user: %w", err)
	}
	if user.ID == "" {
		return SupabaseUser{}, fmt.Errorf("verify token: user has no id")
	}
	c.store(accessToken, user)
	return user, nil
}

func (c *SupabaseClient) cached(token string) (SupabaseUser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[token]
	if !ok {
		return SupabaseUser{}, false
	}
	if !c.now().Before(entry.expires) {
		delete(c.cache, token)
		return SupabaseUser{}, false
	}
	return entry.user, true
}

func (c *SupabaseClient) store(token string, user SupabaseUser) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.cache) >= maxCacheSize {
		now := c.now()
		for k, v := range c.cache {
			if !now.Before(v.expires) {
				delete(c.cache, k)
			}
		}
		if len(c.cache) >= maxCacheSize {
			c.cache = make(map[string]cachedUser)
		}
	}
	c.cache[token] = cachedUser{user: user, expires: c.now().Add(cacheTTL)}
}
