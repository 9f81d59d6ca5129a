package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"tycoon/internal/auth"
	"tycoon/internal/cloud"
	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/hub"
	"tycoon/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type contextKey string

const playerContextKey contextKey = "player"

// DefaultPlayer is used when auth is disabled and no X-Player-ID is sent.
const DefaultPlayer = "local"

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (auth.SupabaseUser, error)
}

type Leaderboard interface {
	Leaderboard(ctx context.Context, limit int) ([]cloud.LeaderboardEntry, error)
}

type Server struct {
	cfg   config.APIConfig
	log   *slog.Logger
	auth  TokenVerifier
	hub   *hub.Hub
	board Leaderboard
	mux   *chi.Mux
}

// New builds the router. authClient and board may be nil; without a
// verifier the player is taken from the X-Player-ID header.
func New(cfg config.APIConfig, logger *slog.Logger, authClient TokenVerifier, players *hub.Hub, board Leaderboard) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:   cfg,
		log:   logger,
		auth:  authClient,
		hub:   players,
		board: board,
		mux:   chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "players": len(s.hub.Players())})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.playerMiddleware)

		// The websocket outlives any request timeout.
		r.Get("/ws", s.handleWebsocket)

		r.Group(func(r chi.Router) {
			if s.cfg.RequestTimeout > 0 {
				r.Use(middleware.Timeout(s.cfg.RequestTimeout))
			}
			r.Get("/state", s.handleState)
			r.Post("/tap", s.handleTap)

			r.Post("/businesses/{id}/buy", s.handleBuyBusiness)
			r.Post("/businesses/{id}/upgrade", s.handleUpgradeBusiness)
			r.Post("/research/{id}/buy", s.handleBuyResearch)
			r.Post("/angel/{id}/buy", s.handleBuyAngel)

			r.Post("/managers/summon", s.handleSummon)
			r.Post("/managers/{id}/hire", s.handleHireManager)
			r.Post("/managers/{id}/upgrade", s.handleUpgradeManager)
			r.Post("/managers/{id}/skill", s.handleManagerSkill)
			r.Post("/skills/{id}/upgrade", s.handleUpgradeSkill)

			r.Post("/stocks/{id}/buy", s.handleStockBuy)
			r.Post("/stocks/{id}/sell", s.handleStockSell)
			r.Post("/artifacts/discover", s.handleDiscoverArtifact)

			r.Get("/decision", s.handleDecision)
			r.Post("/decision/{index}", s.handleResolveDecision)
			r.Post("/missions/refresh", s.handleRefreshMissions)
			r.Post("/missions/{id}/claim", s.handleClaimMission)
			r.Get("/achievements", s.handleAchievements)
			r.Post("/achievements/{id}/claim", s.handleClaimAchievement)
			r.Post("/daily", s.handleDaily)
			r.Post("/settings/{name}/toggle", s.handleToggleSetting)

			r.Post("/timewarp", s.handleTimeWarp)
			r.Post("/prestige", s.handlePrestige)

			r.Get("/save", s.handleExport)
			r.Post("/save", s.handleImport)
			r.Get("/leaderboard", s.handleLeaderboard)
		})
	})
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, fmt.Sprintf("%dxx", status/100)).Inc()
	})
}

// playerMiddleware resolves the player id. With a verifier configured a
// bearer token is required; otherwise X-Player-ID (or ?player=) is trusted.
func (s *Server) playerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var playerID string
		if s.auth != nil {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				token = strings.TrimSpace(r.URL.Query().Get("access_token"))
			}
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			user, err := s.auth.VerifyAccessToken(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
				return
			}
			playerID = user.ID
		} else {
			playerID = strings.TrimSpace(r.Header.Get("X-Player-ID"))
			if playerID == "" {
				playerID = strings.TrimSpace(r.URL.Query().Get("player"))
			}
			if playerID == "" {
				playerID = DefaultPlayer
			}
		}
		ctx := context.WithValue(r.Context(), playerContextKey, playerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func playerFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(playerContextKey).(string)
	if !ok || id == "" {
		return "", errors.New("missing player context")
	}
	return id, nil
}

// engine resolves the request's player engine, writing the error response
// itself when it cannot.
func (s *Server) engine(w http.ResponseWriter, r *http.Request) (*game.Engine, string, bool) {
	playerID, err := playerFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return nil, "", false
	}
	e, err := s.hub.Engine(r.Context(), playerID)
	if err != nil {
		s.log.Error("load player failed", "player_id", playerID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, "", false
	}
	return e, playerID, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownID):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrInvalidAmount), errors.Is(err, game.ErrInvalidOption),
		errors.Is(err, game.ErrBadSave), errors.Is(err, game.ErrUnknownVersion), errors.Is(err, game.ErrMissingSaveData):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrInsufficientGems),
		errors.Is(err, game.ErrInsufficientInvestors), errors.Is(err, game.ErrInsufficientPoints),
		errors.Is(err, game.ErrInsufficientShares), errors.Is(err, game.ErrNotOwned),
		errors.Is(err, game.ErrAlreadyOwned), errors.Is(err, game.ErrMaxLevel),
		errors.Is(err, game.ErrNotHired), errors.Is(err, game.ErrOnCooldown),
		errors.Is(err, game.ErrNoDecision), errors.Is(err, game.ErrNothingToDiscover),
		errors.Is(err, game.ErrNotCompleted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
