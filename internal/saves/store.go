// Package saves persists save tokens per slot in a local SQLite database.
package saves

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("save slot not found")

// Slot is one stored save. Token is a save token as produced by
// game.EncodeSave.
type Slot struct {
	ID        string
	Token     string
	Lifetime  float64
	SavedAt   time.Time
	CreatedAt time.Time
}

type Store struct {
	sqlDB *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS save_slots (
	slot_id     TEXT PRIMARY KEY,
	token       TEXT NOT NULL,
	lifetime    REAL NOT NULL DEFAULT 0,
	saved_at    INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS save_slots_lifetime_idx ON save_slots (lifetime DESC);
`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the save database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create save dir: %w", err)
		}
	}
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put inserts or replaces the slot. CreatedAt is preserved on overwrite.
func (s *Store) Put(ctx context.Context, slot Slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strings.TrimSpace(slot.ID)
	if id == "" {
		return fmt.Errorf("slot id is required")
	}
	if strings.TrimSpace(slot.Token) == "" {
		return fmt.Errorf("token is required")
	}
	savedAt := slot.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO save_slots (slot_id, token, lifetime, saved_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (slot_id) DO UPDATE SET
			token = excluded.token,
			lifetime = excluded.lifetime,
			saved_at = excluded.saved_at
	`, id, slot.Token, slot.Lifetime, toMillis(savedAt), toMillis(savedAt))
	if err != nil {
		return fmt.Errorf("put save slot: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (Slot, error) {
	if err := ctx.Err(); err != nil {
		return Slot{}, err
	}
	var (
		out              Slot
		savedAt, created int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
		SELECT slot_id, token, lifetime, saved_at, created_at
		FROM save_slots
		WHERE slot_id = ?
	`, strings.TrimSpace(id)).Scan(&out.ID, &out.Token, &out.Lifetime, &savedAt, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Slot{}, ErrNotFound
		}
		return Slot{}, fmt.Errorf("get save slot: %w", err)
	}
	out.SavedAt = fromMillis(savedAt)
	out.CreatedAt = fromMillis(created)
	return out, nil
}

// List returns every slot without its token, best lifetime first.
func (s *Store) List(ctx context.Context) ([]Slot, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT slot_id, lifetime, saved_at, created_at
		FROM save_slots
		ORDER BY lifetime DESC, slot_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list save slots: %w", err)
	}
	defer rows.Close()

	out := make([]Slot, 0, 8)
	for rows.Next() {
		var (
			slot             Slot
			savedAt, created int64
		)
		if err := rows.Scan(&slot.ID, &slot.Lifetime, &savedAt, &created); err != nil {
			return nil, fmt.Errorf("scan save slot: %w", err)
		}
		slot.SavedAt = fromMillis(savedAt)
		slot.CreatedAt = fromMillis(created)
		out = append(out, slot)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM save_slots WHERE slot_id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete save slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete save slot: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
