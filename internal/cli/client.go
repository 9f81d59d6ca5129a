package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tycoon/internal/api"
	"tycoon/internal/cloud"
)

// Client talks to a tycoon-api server.
type Client struct {
	BaseURL string
	Token   string
	Player  string
	HTTP    *http.Client
}

func NewClient(baseURL, token, player string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   strings.TrimSpace(token),
		Player:  strings.TrimSpace(player),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) State(ctx context.Context) (api.StateView, error) {
	var out api.StateView
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/state", nil, &out)
	return out, err
}

func (c *Client) Tap(ctx context.Context) (float64, error) {
	var out struct {
		Earned float64 `json:"earned"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/tap", nil, &out)
	return out.Earned, err
}

// Action posts to a /v1 path that answers with a state view, such as
// businesses/lemonade/upgrade.
func (c *Client) Action(ctx context.Context, path string, body any) (api.StateView, error) {
	var out api.StateView
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/"+strings.TrimLeft(path, "/"), body, &out)
	return out, err
}

func (c *Client) Export(ctx context.Context) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/save", nil, &out)
	return out.Token, err
}

func (c *Client) Import(ctx context.Context, token string) error {
	return c.jsonRequest(ctx, http.MethodPost, "/v1/save", map[string]string{"token": token}, nil)
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]cloud.LeaderboardEntry, error) {
	var out struct {
		Leaderboard []cloud.LeaderboardEntry `json:"leaderboard"`
	}
	path := "/v1/leaderboard?limit=" + url.QueryEscape(strconv.Itoa(limit))
	err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out)
	return out.Leaderboard, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.Player != "" {
		req.Header.Set("X-Player-ID", c.Player)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &apiErr) == nil {
			if msg := firstNonEmpty(apiErr.Error, apiErr.Message); msg != "" {
				return fmt.Errorf("api status %d: %s", resp.StatusCode, msg)
			}
		}
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
