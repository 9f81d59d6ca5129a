package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/hub"
	"tycoon/internal/saves"
)

// Session is one local game opened from a save slot.
type Session struct {
	Slot   string
	Engine *game.Engine
	Store  *saves.Store

	hub *hub.Hub
}

// HomeDir resolves the data directory, creating it if needed.
func HomeDir(cfg config.CLIConfig) (string, error) {
	dir := strings.TrimSpace(cfg.Home)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".tycoon")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func savePath(cfg config.CLIConfig) (string, error) {
	dir, err := HomeDir(cfg)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "saves.db"), nil
}

// Open loads the configured slot, paying offline earnings since it was
// last saved. logger may be nil for a silent session.
func Open(ctx context.Context, cfg config.CLIConfig, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	path, err := savePath(cfg)
	if err != nil {
		return nil, err
	}
	store, err := saves.Open(path)
	if err != nil {
		return nil, err
	}
	h := hub.New(hub.Options{Slots: store, Logger: logger})
	e, err := h.Engine(ctx, cfg.Slot)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open slot %s: %w", cfg.Slot, err)
	}
	return &Session{Slot: cfg.Slot, Engine: e, Store: store, hub: h}, nil
}

// Hub exposes the session's hub so a caller can drive ticks through it.
func (s *Session) Hub() *hub.Hub {
	return s.hub
}

func (s *Session) Save(ctx context.Context) error {
	return s.hub.Save(ctx, s.Slot)
}

// Close saves the slot and closes the store.
func (s *Session) Close(ctx context.Context) error {
	saveErr := s.Save(ctx)
	closeErr := s.Store.Close()
	if saveErr != nil {
		return saveErr
	}
	return closeErr
}
