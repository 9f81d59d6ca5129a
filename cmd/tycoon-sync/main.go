package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tycoon/internal/cloud"
	"tycoon/internal/config"
	"tycoon/internal/db"
	"tycoon/internal/game"
	"tycoon/internal/metrics"
	"tycoon/internal/saves"
	"tycoon/internal/syncq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadSyncFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}))
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := cloud.New(pool, logger)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("ensure schema failed", "err", err)
		os.Exit(1)
	}
	slots, err := saves.Open(cfg.SaveDBPath)
	if err != nil {
		logger.Error("open save db failed", "err", err)
		os.Exit(1)
	}
	defer slots.Close()
	queue := syncq.New(cfg.QueuePath)

	if cfg.RunOnce {
		if err := syncOnce(ctx, logger, store, slots, queue); err != nil {
			logger.Error("sync failed", "err", err)
			os.Exit(1)
		}
		logger.Info("sync run-once completed")
		return
	}

	ticker := time.NewTicker(cfg.Every)
	defer ticker.Stop()

	logger.Info("sync worker started", "every", cfg.Every.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("sync worker shutdown")
			return
		case <-ticker.C:
			if err := syncOnce(ctx, logger, store, slots, queue); err != nil {
				logger.Error("sync pass failed", "err", err)
				continue
			}
		}
	}
}

// syncOnce replays queued pushes, then pushes the profile of every local
// slot. The store ignores pushes older than what it already holds.
func syncOnce(ctx context.Context, logger *slog.Logger, store *cloud.Store, slots *saves.Store, queue *syncq.Queue) error {
	replayed, err := queue.Drain(ctx, store.PushProfile)
	if n, lerr := queue.Len(); lerr == nil {
		metrics.SyncQueueDepth.Set(float64(n))
	}
	if err != nil {
		logger.Warn("queue replay incomplete", "replayed", replayed, "err", err)
	}

	list, err := slots.List(ctx)
	if err != nil {
		return err
	}
	pushed, failed := 0, 0
	for _, summary := range list {
		slot, err := slots.Get(ctx, summary.ID)
		if err != nil {
			return err
		}
		profile, err := profileFromToken(slot.ID, slot.Token, logger)
		if err != nil {
			logger.Warn("skipping unreadable slot", "slot", slot.ID, "err", err)
			failed++
			continue
		}
		if err := store.PushProfile(ctx, profile); err != nil {
			failed++
			if qerr := queue.Push(profile); qerr != nil {
				return qerr
			}
			continue
		}
		pushed++
	}
	logger.Info("sync pass complete", "replayed", replayed, "pushed", pushed, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d slots failed to sync", failed, len(list))
	}
	return nil
}

func profileFromToken(slotID, token string, logger *slog.Logger) (game.CloudProfile, error) {
	state, savedAt, err := game.DecodeSave(token)
	if err != nil {
		return game.CloudProfile{}, err
	}
	e := game.New(game.Options{
		State:  game.OverlayState(state, savedAt),
		Now:    func() time.Time { return time.UnixMilli(savedAt) },
		Logger: logger,
	})
	return e.CloudProfile(slotID), nil
}
