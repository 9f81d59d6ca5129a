// Package cloud syncs the partial player profile to Postgres.
package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tycoon/internal/db"
	"tycoon/internal/game"
)

var ErrNotFound = errors.New("profile not found")

type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	PlayerID         string  `json:"playerId"`
	Balance          float64 `json:"balance"`
	LifetimeEarnings float64 `json:"lifetimeEarnings"`
	Investors        int64   `json:"investors"`
}

type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, log: logger}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS tycoon;
		CREATE TABLE IF NOT EXISTS tycoon.profiles (
			player_id             TEXT PRIMARY KEY,
			balance               DOUBLE PRECISION NOT NULL DEFAULT 0,
			gems                  BIGINT NOT NULL DEFAULT 0,
			investors             BIGINT NOT NULL DEFAULT 0,
			lifetime_earnings     DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_daily_reward     BIGINT NOT NULL DEFAULT 0,
			stats                 JSONB,
			claimed_achievements  TEXT[] NOT NULL DEFAULT '{}',
			angel_upgrades        TEXT[] NOT NULL DEFAULT '{}',
			updated_at            BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS profiles_balance_idx ON tycoon.profiles (balance DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// PushProfile upserts a profile. A push older than the stored row is
// ignored so replayed queue entries never roll a player back.
func (s *Store) PushProfile(ctx context.Context, p game.CloudProfile) error {
	id := strings.TrimSpace(p.PlayerID)
	if id == "" {
		return fmt.Errorf("player id is required")
	}
	var stats []byte
	if p.Stats != nil {
		raw, err := json.Marshal(p.Stats)
		if err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}
		stats = raw
	}
	claimed := nonNil(p.ClaimedAchievements)
	angels := nonNil(p.AngelUpgrades)

	err := db.Serializable(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO tycoon.profiles (
				player_id, balance, gems, investors, lifetime_earnings,
				last_daily_reward, stats, claimed_achievements, angel_upgrades, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (player_id) DO UPDATE SET
				balance = EXCLUDED.balance,
				gems = EXCLUDED.gems,
				investors = EXCLUDED.investors,
				lifetime_earnings = GREATEST(tycoon.profiles.lifetime_earnings, EXCLUDED.lifetime_earnings),
				last_daily_reward = EXCLUDED.last_daily_reward,
				stats = COALESCE(EXCLUDED.stats, tycoon.profiles.stats),
				claimed_achievements = EXCLUDED.claimed_achievements,
				angel_upgrades = EXCLUDED.angel_upgrades,
				updated_at = EXCLUDED.updated_at
			WHERE tycoon.profiles.updated_at <= EXCLUDED.updated_at
		`, id, p.Balance, p.Gems, p.Investors, p.LifetimeEarnings,
			p.LastDailyReward, stats, claimed, angels, p.UpdatedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("push profile %s: %w", id, err)
	}
	s.log.Debug("profile pushed", "player_id", id, "balance", p.Balance)
	return nil
}

func (s *Store) FetchProfile(ctx context.Context, playerID string) (game.CloudProfile, error) {
	var (
		out   game.CloudProfile
		stats []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT player_id, balance, gems, investors, lifetime_earnings,
		       last_daily_reward, stats, claimed_achievements, angel_upgrades, updated_at
		FROM tycoon.profiles
		WHERE player_id = $1
	`, strings.TrimSpace(playerID)).Scan(
		&out.PlayerID, &out.Balance, &out.Gems, &out.Investors, &out.LifetimeEarnings,
		&out.LastDailyReward, &stats, &out.ClaimedAchievements, &out.AngelUpgrades, &out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, ErrNotFound
		}
		return out, fmt.Errorf("fetch profile: %w", err)
	}
	if len(stats) > 0 {
		var st game.Stats
		if err := json.Unmarshal(stats, &st); err != nil {
			return out, fmt.Errorf("decode stats: %w", err)
		}
		out.Stats = &st
	}
	return out, nil
}

// Leaderboard returns the top players by current balance.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	limit = ClampLimit(limit)
	rows, err := s.pool.Query(ctx, `
		SELECT player_id, balance, lifetime_earnings, investors
		FROM tycoon.profiles
		ORDER BY balance DESC, player_id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.Balance, &e.LifetimeEarnings, &e.Investors); err != nil {
			return nil, err
		}
		e.Rank = len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClampLimit bounds a requested leaderboard size to 1..100, defaulting to 10.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
