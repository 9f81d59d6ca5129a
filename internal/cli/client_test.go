package cli

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tycoon/internal/api"
	"tycoon/internal/config"
	"tycoon/internal/hub"
)

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	players := hub.New(hub.Options{Logger: logger})
	srv := api.New(config.APIConfig{RequestTimeout: 5 * time.Second}, logger, nil, players, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestClientTapAndState(t *testing.T) {
	ts := newAPI(t)
	c := NewClient(ts.URL+"/", "", "remote")
	ctx := context.Background()

	earned, err := c.Tap(ctx)
	if err != nil {
		t.Fatalf("tap: %v", err)
	}
	if earned != 10 {
		t.Fatalf("earned got %v want 10", earned)
	}
	view, err := c.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if view.State.Money != 10 || view.State.Stats.TotalTaps != 1 {
		t.Fatalf("state money=%v taps=%d", view.State.Money, view.State.Stats.TotalTaps)
	}

	other := NewClient(ts.URL, "", "someone-else")
	view, err = other.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if view.State.Money != 0 {
		t.Fatalf("player header ignored, money=%v", view.State.Money)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	ts := newAPI(t)
	c := NewClient(ts.URL, "", "p")
	_, err := c.Action(context.Background(), "businesses/lemonade/upgrade", nil)
	if err == nil || !strings.Contains(err.Error(), "api status 409") {
		t.Fatalf("err got %v", err)
	}
	if _, err := c.Leaderboard(context.Background(), 5); err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("leaderboard err got %v", err)
	}
}

func TestClientExportImport(t *testing.T) {
	ts := newAPI(t)
	ctx := context.Background()
	src := NewClient(ts.URL, "", "src")
	if _, err := src.Tap(ctx); err != nil {
		t.Fatalf("tap: %v", err)
	}
	token, err := src.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	dst := NewClient(ts.URL, "", "dst")
	if err := dst.Import(ctx, token); err != nil {
		t.Fatalf("import: %v", err)
	}
	view, err := dst.State(ctx)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if view.State.Stats.TotalTaps != 1 {
		t.Fatalf("imported taps got %d", view.State.Stats.TotalTaps)
	}
}
