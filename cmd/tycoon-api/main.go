package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tycoon/internal/api"
	"tycoon/internal/auth"
	"tycoon/internal/cloud"
	"tycoon/internal/config"
	"tycoon/internal/db"
	"tycoon/internal/hub"
	"tycoon/internal/loop"
	"tycoon/internal/saves"
	"tycoon/internal/syncq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}))

	slots, err := saves.Open(cfg.SaveDBPath)
	if err != nil {
		logger.Error("open save db failed", "err", err)
		os.Exit(1)
	}
	defer slots.Close()

	opts := hub.Options{Slots: slots, Logger: logger}
	var (
		apiAuth api.TokenVerifier
		board   api.Leaderboard
	)
	if cfg.DatabaseURL != "" {
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
		opts.Cloud = store
		opts.Queue = syncq.New(cfg.QueuePath)
		board = store
	} else {
		logger.Info("DATABASE_URL not set, cloud sync disabled")
	}
	if cfg.AuthEnabled() {
		apiAuth = auth.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	}

	players := hub.New(opts)
	scheduler := loop.New(players, cfg.Cadence, logger)
	go func() {
		if err := scheduler.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("scheduler stopped", "err", err)
		}
	}()

	server := api.New(cfg, logger, apiAuth, players, board)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("tycoon api listening", "addr", cfg.Addr, "auth", cfg.AuthEnabled())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}

	scheduler.Stop()
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := players.Flush(flushCtx); err != nil {
		logger.Error("final flush failed", "err", err)
	}
	logger.Info("tycoon api stopped", "players", len(players.Players()))
}
