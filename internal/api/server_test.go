package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tycoon/internal/auth"
	"tycoon/internal/cloud"
	"tycoon/internal/config"
	"tycoon/internal/hub"

	"github.com/gorilla/websocket"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyAccessToken(_ context.Context, token string) (auth.SupabaseUser, error) {
	if token != "good" {
		return auth.SupabaseUser{}, errors.New("bad token")
	}
	return auth.SupabaseUser{ID: "user-1"}, nil
}

type fakeBoard struct {
	limit int
}

func (b *fakeBoard) Leaderboard(_ context.Context, limit int) ([]cloud.LeaderboardEntry, error) {
	b.limit = limit
	return []cloud.LeaderboardEntry{{Rank: 1, PlayerID: "top", Balance: 1e6}}, nil
}

func newTestServer(t *testing.T, verifier TokenVerifier, board Leaderboard) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	players := hub.New(hub.Options{Logger: logger})
	cfg := config.APIConfig{RequestTimeout: 5 * time.Second}
	return New(cfg, logger, verifier, players, board)
}

func do(t *testing.T, s *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestStateAndTap(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := do(t, s, http.MethodGet, "/v1/state", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("state status %d: %s", rec.Code, rec.Body.String())
	}
	view := decode[StateView](t, rec)
	if view.State.Gems != 50 || view.GlobalMultiplier != 1 {
		t.Fatalf("unexpected fresh view gems=%d mult=%v", view.State.Gems, view.GlobalMultiplier)
	}

	rec = do(t, s, http.MethodPost, "/v1/tap", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("tap status %d", rec.Code)
	}
	tap := decode[map[string]float64](t, rec)
	if tap["earned"] != 10 || tap["combo"] != 5 {
		t.Fatalf("tap got %v", tap)
	}

	view = decode[StateView](t, do(t, s, http.MethodGet, "/v1/state", "", nil))
	if view.State.Money != 10 || view.State.Stats.TotalTaps != 1 {
		t.Fatalf("after tap money=%v taps=%d", view.State.Money, view.State.Stats.TotalTaps)
	}
}

func TestPlayersAreIsolated(t *testing.T) {
	s := newTestServer(t, nil, nil)
	do(t, s, http.MethodPost, "/v1/tap", "", map[string]string{"X-Player-ID": "a"})
	view := decode[StateView](t, do(t, s, http.MethodGet, "/v1/state?player=b", "", nil))
	if view.State.Money != 0 {
		t.Fatalf("player b should not see a's tap, money=%v", view.State.Money)
	}
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t, nil, nil)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "unknown business", method: http.MethodPost, path: "/v1/businesses/nope/upgrade", want: http.StatusNotFound},
		{name: "broke upgrade", method: http.MethodPost, path: "/v1/businesses/lemonade/upgrade", want: http.StatusConflict},
		{name: "broke research", method: http.MethodPost, path: "/v1/research/res_marketing/buy", want: http.StatusConflict},
		{name: "summon without gems", method: http.MethodPost, path: "/v1/managers/summon", want: http.StatusConflict},
		{name: "skill not hired", method: http.MethodPost, path: "/v1/managers/mgr_lemon/skill", want: http.StatusConflict},
		{name: "no decision", method: http.MethodGet, path: "/v1/decision", want: http.StatusConflict},
		{name: "bad option index", method: http.MethodPost, path: "/v1/decision/x", want: http.StatusBadRequest},
		{name: "zero shares", method: http.MethodPost, path: "/v1/stocks/stk_tech/buy", body: `{"shares":0}`, want: http.StatusBadRequest},
		{name: "unknown field", method: http.MethodPost, path: "/v1/stocks/stk_tech/buy", body: `{"qty":1}`, want: http.StatusBadRequest},
		{name: "nothing to prestige", method: http.MethodPost, path: "/v1/prestige", want: http.StatusConflict},
		{name: "unknown setting", method: http.MethodPost, path: "/v1/settings/volume/toggle", want: http.StatusNotFound},
		{name: "bad save", method: http.MethodPost, path: "/v1/save", body: `{"token":"junk"}`, want: http.StatusBadRequest},
		{name: "leaderboard off", method: http.MethodGet, path: "/v1/leaderboard", want: http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, tc.method, tc.path, tc.body, nil)
			if rec.Code != tc.want {
				t.Fatalf("got %d want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestSaveExportImport(t *testing.T) {
	s := newTestServer(t, nil, nil)
	for i := 0; i < 3; i++ {
		do(t, s, http.MethodPost, "/v1/tap", "", nil)
	}
	rec := do(t, s, http.MethodGet, "/v1/save", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status %d", rec.Code)
	}
	token := decode[map[string]string](t, rec)["token"]
	if !strings.HasPrefix(token, "TYCOON-") {
		t.Fatalf("token got %q", token)
	}

	body, _ := json.Marshal(map[string]string{"token": token})
	rec = do(t, s, http.MethodPost, "/v1/save", string(body), map[string]string{"X-Player-ID": "copy"})
	if rec.Code != http.StatusOK {
		t.Fatalf("import status %d: %s", rec.Code, rec.Body.String())
	}
	view := decode[StateView](t, rec)
	if view.State.Stats.TotalTaps != 3 {
		t.Fatalf("imported taps got %d want 3", view.State.Stats.TotalTaps)
	}
}

func TestDailyAndToggle(t *testing.T) {
	s := newTestServer(t, nil, nil)
	first := decode[map[string]bool](t, do(t, s, http.MethodPost, "/v1/daily", "", nil))
	second := decode[map[string]bool](t, do(t, s, http.MethodPost, "/v1/daily", "", nil))
	if !first["claimed"] || second["claimed"] {
		t.Fatalf("daily got first=%v second=%v", first, second)
	}
	toggled := decode[map[string]bool](t, do(t, s, http.MethodPost, "/v1/settings/sfx/toggle", "", nil))
	if toggled["enabled"] {
		t.Fatalf("sfx should toggle off from default on")
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, fakeVerifier{}, nil)
	if rec := do(t, s, http.MethodGet, "/v1/state", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/v1/state", "", map[string]string{"Authorization": "Bearer nope"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token got %d", rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/v1/state", "", map[string]string{"Authorization": "Bearer good", "X-Player-ID": "spoof"})
	if rec.Code != http.StatusOK {
		t.Fatalf("good token got %d", rec.Code)
	}
	if got := s.hub.Players(); len(got) != 1 || got[0] != "user-1" {
		t.Fatalf("players got %v want [user-1]", got)
	}
}

func TestLeaderboard(t *testing.T) {
	board := &fakeBoard{}
	s := newTestServer(t, nil, board)
	rec := do(t, s, http.MethodGet, "/v1/leaderboard?limit=500", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if board.limit != 100 {
		t.Fatalf("limit got %d want 100", board.limit)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"top"`)) {
		t.Fatalf("body %s", rec.Body.String())
	}
}

func TestWebsocketFeed(t *testing.T) {
	s := newTestServer(t, nil, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws?player=ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var first feedMessage
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read: %v", err)
	}
	if first.Type != "state" || first.Gems != 50 {
		t.Fatalf("first frame %+v", first)
	}

	if err := conn.WriteJSON(clientAction{Action: "tap"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	for {
		var msg feedMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == "state" && msg.Money == 10 {
			return
		}
	}
}
