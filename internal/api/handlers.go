package api

import (
	"net/http"
	"strconv"
	"strings"

	"tycoon/internal/cloud"
	"tycoon/internal/game"
	"tycoon/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// StateView is the full state plus the values a client would otherwise
// have to derive.
type StateView struct {
	State            *game.State              `json:"state"`
	GlobalMultiplier float64                  `json:"globalMultiplier"`
	RevenuePerSecond float64                  `json:"revenuePerSecond"`
	PortfolioValue   float64                  `json:"portfolioValue"`
	PrestigeGain     int64                    `json:"prestigeGain"`
	Synergies        []game.Synergy           `json:"synergies"`
	Decision         *game.DecisionView       `json:"decision,omitempty"`
	Toast            *game.Toast              `json:"toast,omitempty"`
	Achievements     []game.AchievementStatus `json:"achievements"`
}

func buildView(e *game.Engine) StateView {
	v := StateView{
		State:            e.Snapshot(),
		GlobalMultiplier: e.GlobalMultiplier(),
		RevenuePerSecond: e.RevenuePerSecond(),
		PortfolioValue:   e.PortfolioValue(),
		PrestigeGain:     e.PrestigeGain(),
		Synergies:        e.ActiveSynergies(),
		Toast:            e.Toast(),
		Achievements:     e.Achievements(),
	}
	if d, ok := e.ActiveDecision(); ok {
		v.Decision = &d
	}
	return v
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, buildView(e))
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	earned := e.Tap()
	var combo float64
	e.View(func(st *game.State) { combo = st.Combo })
	writeJSON(w, http.StatusOK, map[string]any{"earned": earned, "combo": combo})
}

// mutate runs a guarded engine action keyed by the {id} url param and
// answers with the new view.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, action func(e *game.Engine, id string) error) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	if err := action(e, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildView(e))
}

func (s *Server) handleBuyBusiness(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*game.Engine).BuyBusiness)
}

func (s *Server) handleUpgradeBusiness(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*game.Engine).UpgradeBusiness)
}

func (s *Server) handleBuyResearch(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*game.Engine).BuyResearch)
}

func (s *Server) handleBuyAngel(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*game.Engine).BuyAngelUpgrade)
}

func (s *Server) handleHireManager(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*game.Engine).HireManager)
}

func (s *Server) handleUpgradeManager(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*game.Engine).UpgradeManager)
}

func (s *Server) handleUpgradeSkill(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*game.Engine).UpgradeCeoSkill)
}

func (s *Server) handleClaimMission(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*game.Engine).ClaimMission)
}

func (s *Server) handleClaimAchievement(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, (*game.Engine).ClaimAchievement)
}

func (s *Server) handleSummon(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	res := e.SummonManager()
	if !res.Success {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	if res.Manager != nil {
		metrics.SummonsTotal.WithLabelValues(string(res.Manager.Rarity)).Inc()
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleManagerSkill(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	res := e.TriggerManagerSkill(chi.URLParam(r, "id"))
	if res.Err != nil {
		writeDomainError(w, res.Err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type tradeRequest struct {
	Shares int64 `json:"shares"`
}

func (s *Server) handleStockBuy(w http.ResponseWriter, r *http.Request) {
	s.trade(w, r, (*game.Engine).BuyStock)
}

func (s *Server) handleStockSell(w http.ResponseWriter, r *http.Request) {
	s.trade(w, r, (*game.Engine).SellStock)
}

func (s *Server) trade(w http.ResponseWriter, r *http.Request, fn func(*game.Engine, string, int64) error) {
	var in tradeRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mutate(w, r, func(e *game.Engine, id string) error {
		return fn(e, id, in.Shares)
	})
}

func (s *Server) handleDiscoverArtifact(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	a, err := e.DiscoverArtifact()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"artifact": a})
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	d, active := e.ActiveDecision()
	if !active {
		writeDomainError(w, game.ErrNoDecision)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleResolveDecision(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid option index")
		return
	}
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	out, err := e.ResolveDecision(index)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRefreshMissions(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	refreshed := e.RefreshMissions()
	writeJSON(w, http.StatusOK, map[string]any{"refreshed": refreshed, "missions": e.Snapshot().Missions})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": e.Achievements()})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"claimed": e.ClaimDailyReward()})
}

func (s *Server) handleToggleSetting(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	var on bool
	switch strings.ToLower(chi.URLParam(r, "name")) {
	case "sfx":
		on = e.ToggleSfx()
	case "haptics":
		on = e.ToggleHaptics()
	default:
		writeError(w, http.StatusNotFound, "unknown setting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": on})
}

func (s *Server) handleTimeWarp(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Hours float64 `json:"hours"`
		Gems  int64   `json:"gems"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	value := e.TimeWarpValue(in.Hours)
	if err := e.BuyTimeWarp(in.Hours, in.Gems); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"earned": value})
}

func (s *Server) handlePrestige(w http.ResponseWriter, r *http.Request) {
	e, playerID, ok := s.engine(w, r)
	if !ok {
		return
	}
	res := e.Prestige()
	if !res.Success {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	metrics.PrestigesTotal.Inc()
	if err := s.hub.Save(r.Context(), playerID); err != nil {
		s.log.Warn("save after prestige failed", "player_id", playerID, "err", err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	e, _, ok := s.engine(w, r)
	if !ok {
		return
	}
	token, err := e.ExportSaveData()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, _, err := game.DecodeSave(in.Token); err != nil {
		writeDomainError(w, err)
		return
	}
	e, playerID, ok := s.engine(w, r)
	if !ok {
		return
	}
	if !e.LoadSaveData(in.Token) {
		writeError(w, http.StatusBadRequest, "save rejected")
		return
	}
	if err := s.hub.Save(r.Context(), playerID); err != nil {
		s.log.Warn("save after import failed", "player_id", playerID, "err", err)
	}
	writeJSON(w, http.StatusOK, buildView(e))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.board == nil {
		writeError(w, http.StatusServiceUnavailable, "leaderboard requires DATABASE_URL")
		return
	}
	rows, err := s.board.Leaderboard(r.Context(), cloud.ClampLimit(queryInt(r, "limit", 10)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": rows})
}
