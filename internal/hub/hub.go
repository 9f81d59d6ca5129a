// Package hub keeps one game engine per loaded player and persists them.
package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"tycoon/internal/cloud"
	"tycoon/internal/game"
	"tycoon/internal/metrics"
	"tycoon/internal/saves"
)

type SlotStore interface {
	Get(ctx context.Context, id string) (saves.Slot, error)
	Put(ctx context.Context, slot saves.Slot) error
}

// CloudSink is the remote profile store. It is optional.
type CloudSink interface {
	PushProfile(ctx context.Context, p game.CloudProfile) error
	FetchProfile(ctx context.Context, playerID string) (game.CloudProfile, error)
}

// Retrier holds profiles whose push failed.
type Retrier interface {
	Push(p game.CloudProfile) error
}

type Options struct {
	Slots  SlotStore
	Cloud  CloudSink
	Queue  Retrier
	Now    func() time.Time
	Rand   func() game.Roller
	Logger *slog.Logger
}

type Hub struct {
	mu      sync.RWMutex
	engines map[string]*game.Engine

	slots SlotStore
	cloud CloudSink
	queue Retrier
	now   func() time.Time
	rand  func() game.Roller
	log   *slog.Logger
}

func New(opts Options) *Hub {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Hub{
		engines: make(map[string]*game.Engine),
		slots:   opts.Slots,
		cloud:   opts.Cloud,
		queue:   opts.Queue,
		now:     opts.Now,
		rand:    opts.Rand,
		log:     opts.Logger,
	}
}

// Engine returns the player's engine, loading it on first use. A newly
// loaded engine has already been paid its offline earnings.
func (h *Hub) Engine(ctx context.Context, playerID string) (*game.Engine, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("player id is required")
	}
	h.mu.RLock()
	e, ok := h.engines[playerID]
	h.mu.RUnlock()
	if ok {
		return e, nil
	}

	// Load without the lock so slow storage only stalls this player. A
	// concurrent load of the same player keeps whichever engine landed first.
	e, err := h.load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.engines[playerID]; ok {
		return existing, nil
	}
	h.engines[playerID] = e
	metrics.PlayersLoaded.Set(float64(len(h.engines)))
	return e, nil
}

func (h *Hub) load(ctx context.Context, playerID string) (*game.Engine, error) {
	opts := game.Options{Now: h.now, Logger: h.log.With("player_id", playerID)}
	if h.rand != nil {
		opts.Rand = h.rand()
	}
	source := "new"
	var (
		fromSlot     bool
		localSavedAt int64
	)
	if h.slots != nil {
		slot, err := h.slots.Get(ctx, playerID)
		switch {
		case err == nil:
			state, tokenAt, err := game.DecodeSave(slot.Token)
			if err != nil {
				return nil, fmt.Errorf("decode slot %s: %w", playerID, err)
			}
			opts.State = game.OverlayState(state, h.now().UnixMilli())
			source = "slot"
			fromSlot = true
			localSavedAt = tokenAt
			if !slot.SavedAt.IsZero() {
				localSavedAt = slot.SavedAt.UnixMilli()
			}
		case errors.Is(err, saves.ErrNotFound):
		default:
			return nil, fmt.Errorf("load slot %s: %w", playerID, err)
		}
	}
	e := game.New(opts)

	if h.cloud != nil {
		p, err := h.cloud.FetchProfile(ctx, playerID)
		switch {
		case err == nil && fromSlot && p.UpdatedAt <= localSavedAt:
			// Newest wins. An older profile means a push is still queued.
			h.log.Debug("cloud profile older than slot", "player_id", playerID, "cloud_at", p.UpdatedAt, "slot_at", localSavedAt)
		case err == nil:
			e.HydrateFromCloud(p)
			source += "+cloud"
		case errors.Is(err, cloud.ErrNotFound):
		default:
			h.log.Warn("cloud profile unavailable", "player_id", playerID, "err", err)
		}
	}

	if earned := e.CalculateOfflineEarnings(); earned > 0 {
		metrics.OfflinePayout.Observe(earned)
	}
	e.RefreshMissions()
	h.log.Info("player loaded", "player_id", playerID, "source", source)
	return e, nil
}

// Players lists loaded player ids in sorted order.
func (h *Hub) Players() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.engines))
	for id := range h.engines {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (h *Hub) loaded() map[string]*game.Engine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]*game.Engine, len(h.engines))
	for id, e := range h.engines {
		out[id] = e
	}
	return out
}

// HandleTick fans a scheduler tick out to every loaded engine. Autosave
// ticks persist every engine instead.
func (h *Hub) HandleTick(ctx context.Context, kind game.TickKind) error {
	if kind == game.TickAutosave {
		return h.Flush(ctx)
	}
	var errs []error
	for id, e := range h.loaded() {
		if err := e.HandleTick(kind); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Save persists one loaded player.
func (h *Hub) Save(ctx context.Context, playerID string) error {
	h.mu.RLock()
	e, ok := h.engines[playerID]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("player %s is not loaded", playerID)
	}
	return h.save(ctx, playerID, e)
}

// Flush persists every loaded player.
func (h *Hub) Flush(ctx context.Context) error {
	var errs []error
	for id, e := range h.loaded() {
		if err := h.save(ctx, id, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unload saves the player and drops the engine.
func (h *Hub) Unload(ctx context.Context, playerID string) error {
	h.mu.Lock()
	e, ok := h.engines[playerID]
	delete(h.engines, playerID)
	metrics.PlayersLoaded.Set(float64(len(h.engines)))
	h.mu.Unlock()
	if !ok {
		return nil
	}
	return h.save(ctx, playerID, e)
}

// save writes the local slot first. A failed cloud push is queued and
// does not fail the save.
func (h *Hub) save(ctx context.Context, playerID string, e *game.Engine) error {
	if h.slots != nil {
		token, err := e.ExportSaveData()
		if err != nil {
			metrics.SavesTotal.WithLabelValues("slot", "error").Inc()
			return fmt.Errorf("export %s: %w", playerID, err)
		}
		var lifetime float64
		e.View(func(s *game.State) { lifetime = s.LifetimeEarnings })
		slot := saves.Slot{ID: playerID, Token: token, Lifetime: lifetime, SavedAt: h.now()}
		if err := h.slots.Put(ctx, slot); err != nil {
			metrics.SavesTotal.WithLabelValues("slot", "error").Inc()
			return fmt.Errorf("save slot %s: %w", playerID, err)
		}
		metrics.SavesTotal.WithLabelValues("slot", "ok").Inc()
	}

	if h.cloud == nil {
		return nil
	}
	profile := e.CloudProfile(playerID)
	if err := h.cloud.PushProfile(ctx, profile); err != nil {
		metrics.SavesTotal.WithLabelValues("cloud", "error").Inc()
		h.log.Warn("cloud push failed", "player_id", playerID, "err", err)
		if h.queue != nil {
			if qerr := h.queue.Push(profile); qerr != nil {
				return fmt.Errorf("queue profile %s: %w", playerID, qerr)
			}
			metrics.SyncQueueDepth.Inc()
		}
		return nil
	}
	metrics.SavesTotal.WithLabelValues("cloud", "ok").Inc()
	return nil
}
