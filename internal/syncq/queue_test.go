package syncq

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tycoon/internal/game"
)

func newQueue(t *testing.T) *Queue {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "q", "sync-queue.json"))
}

func TestLoadMissingFile(t *testing.T) {
	q := newQueue(t)
	entries, err := q.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries want 0", len(entries))
	}
}

func TestPushKeepsNewestPerPlayer(t *testing.T) {
	q := newQueue(t)
	for _, p := range []game.CloudProfile{
		{PlayerID: "a", Balance: 1, UpdatedAt: 10},
		{PlayerID: "b", Balance: 5, UpdatedAt: 10},
		{PlayerID: "a", Balance: 2, UpdatedAt: 20},
		{PlayerID: "a", Balance: 99, UpdatedAt: 15},
	} {
		if err := q.Push(p); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	entries, err := q.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries want 2", len(entries))
	}
	if entries[0].Profile.Balance != 2 {
		t.Fatalf("player a balance got %v want 2", entries[0].Profile.Balance)
	}
	if entries[0].IdempotencyKey == "" {
		t.Fatalf("expected idempotency key")
	}
}

func TestDrain(t *testing.T) {
	q := newQueue(t)
	for _, id := range []string{"ok", "bad"} {
		if err := q.Push(game.CloudProfile{PlayerID: id, UpdatedAt: 1}); err != nil {
			t.Fatalf("push: %v", err)
		}
	}
	boom := errors.New("db down")
	delivered, err := q.Drain(context.Background(), func(_ context.Context, p game.CloudProfile) error {
		if p.PlayerID == "bad" {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v want boom", err)
	}
	if delivered != 1 {
		t.Fatalf("delivered got %d want 1", delivered)
	}
	entries, _ := q.Load()
	if len(entries) != 1 || entries[0].Profile.PlayerID != "bad" || entries[0].Attempts != 1 {
		t.Fatalf("unexpected remaining entries %+v", entries)
	}

	delivered, err = q.Drain(context.Background(), func(context.Context, game.CloudProfile) error { return nil })
	if err != nil || delivered != 1 {
		t.Fatalf("second drain got %d, %v", delivered, err)
	}
	if n, _ := q.Len(); n != 0 {
		t.Fatalf("queue should be empty, has %d", n)
	}
}

func TestLoadCorrupt(t *testing.T) {
	q := newQueue(t)
	if err := os.MkdirAll(filepath.Dir(q.path), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(q.path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := q.Load(); err == nil {
		t.Fatal("expected decode error")
	}
}
