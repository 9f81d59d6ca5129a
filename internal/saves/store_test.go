package saves

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "tycoon.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	first := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	if err := store.Put(ctx, Slot{ID: "alice", Token: "TYCOON-one", Lifetime: 10, SavedAt: first}); err != nil {
		t.Fatalf("put: %v", err)
	}
	second := first.Add(time.Hour)
	if err := store.Put(ctx, Slot{ID: "alice", Token: "TYCOON-two", Lifetime: 20, SavedAt: second}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Token != "TYCOON-two" || got.Lifetime != 20 {
		t.Fatalf("unexpected slot %+v", got)
	}
	if !got.SavedAt.Equal(second) {
		t.Fatalf("saved_at = %v, want %v", got.SavedAt, second)
	}
	if !got.CreatedAt.Equal(first) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, first)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.Get(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v want ErrNotFound", err)
	}
}

func TestPutValidates(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	if err := store.Put(ctx, Slot{Token: "TYCOON-x"}); err == nil {
		t.Fatal("expected missing id error")
	}
	if err := store.Put(ctx, Slot{ID: "a"}); err == nil {
		t.Fatal("expected missing token error")
	}
}

func TestListOrdersByLifetime(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	for id, lifetime := range map[string]float64{"low": 1, "high": 300, "mid": 50} {
		if err := store.Put(ctx, Slot{ID: id, Token: "TYCOON-" + id, Lifetime: lifetime}); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}
	slots, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"high", "mid", "low"}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots want %d", len(slots), len(want))
	}
	for i, id := range want {
		if slots[i].ID != id {
			t.Fatalf("slot %d = %q, want %q", i, slots[i].ID, id)
		}
		if slots[i].Token != "" {
			t.Fatalf("list should not carry tokens")
		}
	}
}

func TestDelete(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	if err := store.Put(ctx, Slot{ID: "gone", Token: "TYCOON-x"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete got %v want ErrNotFound", err)
	}
}
