package game

import "math"

// CloudProfile is the partial-field view synced to the remote profile store.
// Zero values mean "not present" when hydrating.
type CloudProfile struct {
	PlayerID            string   `json:"playerId"`
	Balance             float64  `json:"balance"`
	Gems                int64    `json:"gems"`
	Investors           int64    `json:"investors"`
	LifetimeEarnings    float64  `json:"lifetimeEarnings"`
	LastDailyReward     int64    `json:"lastDailyReward"`
	Stats               *Stats   `json:"stats,omitempty"`
	ClaimedAchievements []string `json:"claimedAchievements,omitempty"`
	AngelUpgrades       []string `json:"angelUpgrades,omitempty"`
	UpdatedAt           int64    `json:"updatedAt"`
}

// CloudProfile exports the fields that are synced remotely.
func (e *Engine) CloudProfile(playerID string) CloudProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	stats := s.Stats
	return CloudProfile{
		PlayerID:            playerID,
		Balance:             s.Money,
		Gems:                s.Gems,
		Investors:           s.Investors,
		LifetimeEarnings:    s.LifetimeEarnings,
		LastDailyReward:     s.LastDailyReward,
		Stats:               &stats,
		ClaimedAchievements: cloneSlice(s.ClaimedAchievements),
		AngelUpgrades:       cloneSlice(s.AngelUpgrades),
		UpdatedAt:           e.nowMillis(),
	}
}

// HydrateFromCloud merges a remote profile. Money keeps the larger of the
// two balances; every other present field overwrites the local value.
func (e *Engine) HydrateFromCloud(p CloudProfile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	s.Money = math.Max(s.Money, p.Balance)
	if p.Gems != 0 {
		s.Gems = p.Gems
	}
	if p.Investors != 0 {
		s.Investors = p.Investors
	}
	if p.LifetimeEarnings > s.LifetimeEarnings {
		s.LifetimeEarnings = p.LifetimeEarnings
	}
	if p.LastDailyReward != 0 {
		s.LastDailyReward = p.LastDailyReward
	}
	if p.Stats != nil {
		s.Stats = *p.Stats
	}
	if p.ClaimedAchievements != nil {
		s.ClaimedAchievements = cloneSlice(p.ClaimedAchievements)
	}
	if p.AngelUpgrades != nil {
		s.AngelUpgrades = knownAngels(p.AngelUpgrades)
	}
}

func knownAngels(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := angelByID(id); ok && !contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// OverlayState seeds fresh catalogs and copies the persisted mutable fields
// on top, matching items by id. Items no longer in the catalog are dropped
// and new catalog items appear with their defaults.
func OverlayState(persisted *State, now int64) *State {
	out := DefaultState(now)
	if persisted == nil {
		return out
	}
	p := persisted

	out.Money = p.Money
	out.Gems = p.Gems
	out.Investors = p.Investors
	out.LifetimeEarnings = p.LifetimeEarnings
	out.Stats = p.Stats
	if out.Stats.StartTime == 0 {
		out.Stats.StartTime = now
	}
	if p.LastLogin != 0 {
		out.LastLogin = p.LastLogin
	}
	out.LastDailyReward = p.LastDailyReward
	out.Settings = p.Settings
	if p.Weather != "" {
		out.Weather = p.Weather
	}
	if p.NewsTicker != "" {
		out.NewsTicker = p.NewsTicker
	}
	if p.Ceo.Level > 0 {
		out.Ceo = p.Ceo
	}
	out.Combo = math.Min(MaxCombo, math.Max(0, p.Combo))
	out.MaxCombo = p.MaxCombo
	out.LastMissionRefresh = p.LastMissionRefresh
	if p.Missions != nil {
		out.Missions = cloneSlice(p.Missions)
	}
	if p.ClaimedAchievements != nil {
		out.ClaimedAchievements = cloneSlice(p.ClaimedAchievements)
	}
	out.AngelUpgrades = knownAngels(p.AngelUpgrades)
	if p.ActiveEvent != nil {
		ev := *p.ActiveEvent
		out.ActiveEvent = &ev
	}
	if p.ActiveDecision != nil {
		if _, ok := decisionByID(p.ActiveDecision.ID); ok {
			out.ActiveDecision = &ActiveDecision{ID: p.ActiveDecision.ID}
		}
	}

	for i := range out.Businesses {
		b := &out.Businesses[i]
		for _, pb := range p.Businesses {
			if pb.ID != b.ID {
				continue
			}
			b.Level = max(0, pb.Level)
			b.Owned = pb.Owned || b.Owned || b.Level > 0
			if pb.BaseRevenue > b.BaseRevenue {
				b.BaseRevenue = pb.BaseRevenue
			}
		}
	}
	for i := range out.Managers {
		m := &out.Managers[i]
		for _, pm := range p.Managers {
			if pm.ID != m.ID {
				continue
			}
			m.Hired = pm.Hired
			m.Level = max(1, pm.Level)
			m.Skill.LastUsed = pm.Skill.LastUsed
		}
	}
	for i := range out.Research {
		r := &out.Research[i]
		for _, pr := range p.Research {
			if pr.ID == r.ID {
				r.CurrentLevel = min(max(0, pr.CurrentLevel), r.MaxLevel)
			}
		}
	}
	for i := range out.Skills {
		sk := &out.Skills[i]
		for _, ps := range p.Skills {
			if ps.ID == sk.ID {
				sk.Level = min(max(0, ps.Level), sk.MaxLevel)
			}
		}
	}
	for i := range out.Artifacts {
		a := &out.Artifacts[i]
		for _, pa := range p.Artifacts {
			if pa.ID == a.ID {
				a.Owned = pa.Owned
			}
		}
	}
	for i := range out.Stocks {
		st := &out.Stocks[i]
		for _, ps := range p.Stocks {
			if ps.ID != st.ID || ps.Price <= 0 {
				continue
			}
			st.Price = clampPrice(ps.Price)
			st.PreviousPrice = ps.PreviousPrice
			if len(ps.History) > 0 {
				st.History = cloneSlice(ps.History[max(0, len(ps.History)-StockHistory):])
			}
			if ps.Trend != "" {
				st.Trend = ps.Trend
				st.TrendDuration = ps.TrendDuration
			}
		}
	}
	for id, n := range p.Portfolio {
		for _, st := range out.Stocks {
			if st.ID == id && n > 0 {
				out.Portfolio[id] = n
			}
		}
	}
	return out
}
