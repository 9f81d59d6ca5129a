// Package syncq keeps cloud profile pushes that failed, in a JSON file, so
// a later sync pass can replay them.
package syncq

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"tycoon/internal/game"
)

type Entry struct {
	Profile        game.CloudProfile `json:"profile"`
	IdempotencyKey string            `json:"idempotency_key"`
	Attempts       int               `json:"attempts"`
}

type Queue struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Queue {
	return &Queue{path: path}
}

// DefaultPath is ~/.tycoon/sync-queue.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tycoon", "sync-queue.json"), nil
}

func (q *Queue) Load() ([]Entry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load()
}

func (q *Queue) load() ([]Entry, error) {
	raw, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []Entry{}, nil
	}
	var out []Entry
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode sync queue: %w", err)
	}
	return out, nil
}

func (q *Queue) save(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(q.path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := q.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, q.path)
}

// Push queues a profile. Only the newest profile per player is kept.
func (q *Queue) Push(p game.CloudProfile) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	entries, err := q.load()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].Profile.PlayerID != p.PlayerID {
			continue
		}
		if entries[i].Profile.UpdatedAt <= p.UpdatedAt {
			entries[i].Profile = p
		}
		return q.save(entries)
	}
	entries = append(entries, Entry{Profile: p, IdempotencyKey: uuid.NewString()})
	return q.save(entries)
}

func (q *Queue) Len() (int, error) {
	entries, err := q.Load()
	return len(entries), err
}

// Drain hands every entry to push. Entries that push rejects stay queued
// with their attempt count bumped; the rest are removed. It returns how many
// were delivered.
func (q *Queue) Drain(ctx context.Context, push func(context.Context, game.CloudProfile) error) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	entries, err := q.load()
	if err != nil {
		return 0, err
	}
	kept := entries[:0]
	delivered := 0
	var firstErr error
	for _, e := range entries {
		if ctx.Err() != nil {
			kept = append(kept, e)
			continue
		}
		if err := push(ctx, e.Profile); err != nil {
			e.Attempts++
			kept = append(kept, e)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delivered++
	}
	if err := q.save(kept); err != nil {
		return delivered, err
	}
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	return delivered, firstErr
}
