package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tycoon/internal/config"
)

func TestSessionPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	cfg := config.CLIConfig{Home: filepath.Join(t.TempDir(), "home"), Slot: "alpha"}

	s, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Engine.Tap()
	s.Engine.Tap()
	if err := s.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Home, "saves.db")); err != nil {
		t.Fatalf("save db missing: %v", err)
	}

	s, err = Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close(ctx)
	if got := s.Engine.Snapshot().Stats.TotalTaps; got != 2 {
		t.Fatalf("taps got %d want 2", got)
	}
	slots, err := s.Store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != "alpha" {
		t.Fatalf("slots got %+v", slots)
	}
}

func TestSlotsAreSeparate(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()

	a, err := Open(ctx, config.CLIConfig{Home: home, Slot: "a"}, nil)
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	a.Engine.Tap()
	if err := a.Close(ctx); err != nil {
		t.Fatalf("close a: %v", err)
	}

	b, err := Open(ctx, config.CLIConfig{Home: home, Slot: "b"}, nil)
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.Close(ctx)
	if got := b.Engine.Snapshot().Stats.TotalTaps; got != 0 {
		t.Fatalf("slot b taps got %d want 0", got)
	}
}
