package game

import (
	"fmt"

	"github.com/google/uuid"
)

// RefreshMissions regenerates the daily missions when there are none or the
// last batch is at least a day old. It reports whether a new batch was made.
func (e *Engine) RefreshMissions() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.nowMillis()
	if len(e.state.Missions) > 0 && now-e.state.LastMissionRefresh < dayMillis {
		return false
	}
	missions := make([]Mission, 0, len(missionTemplates))
	for _, t := range missionTemplates {
		missions = append(missions, Mission{
			ID:          uuid.NewString(),
			Type:        t.Type,
			Description: t.Description,
			Target:      t.Target,
			Reward:      t.Reward,
		})
	}
	e.state.Missions = missions
	e.state.LastMissionRefresh = now
	return true
}

func (e *Engine) checkMissions(kind MissionType, amount float64) {
	if amount <= 0 {
		return
	}
	for i := range e.state.Missions {
		m := &e.state.Missions[i]
		if m.Type != kind || m.Completed {
			continue
		}
		m.Current += amount
		if m.Current >= m.Target {
			m.Completed = true
			e.notify(fmt.Sprintf("Mission complete: %s", m.Description), ToastSuccess)
		}
	}
}

// ClaimMission grants a completed mission's reward once. Claiming again is a
// no-op.
func (e *Engine) ClaimMission(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.Missions {
		m := &e.state.Missions[i]
		if m.ID != id {
			continue
		}
		if m.Claimed {
			return nil
		}
		if !m.Completed {
			return ErrNotCompleted
		}
		m.Claimed = true
		e.state.Gems += m.Reward
		e.notify(fmt.Sprintf("+%d gems", m.Reward), ToastSuccess)
		return nil
	}
	return ErrUnknownID
}

// Achievements lists every achievement with its unlock and claim status.
func (e *Engine) Achievements() []AchievementStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]AchievementStatus, 0, len(achievements))
	for _, a := range achievements {
		out = append(out, AchievementStatus{
			ID:       a.ID,
			Name:     a.Name,
			Reward:   a.Reward,
			Unlocked: a.done(e.state),
			Claimed:  contains(e.state.ClaimedAchievements, a.ID),
		})
	}
	return out
}

type AchievementStatus struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Reward   int64  `json:"reward"`
	Unlocked bool   `json:"unlocked"`
	Claimed  bool   `json:"claimed"`
}

// ClaimAchievement grants an unlocked achievement's gems once.
func (e *Engine) ClaimAchievement(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := achievementByID(id)
	if !ok {
		return ErrUnknownID
	}
	if contains(e.state.ClaimedAchievements, id) {
		return nil
	}
	if !a.done(e.state) {
		return ErrNotCompleted
	}
	e.state.ClaimedAchievements = append(e.state.ClaimedAchievements, id)
	e.state.Gems += a.Reward
	e.notify(fmt.Sprintf("Achievement unlocked: %s (+%d gems)", a.Name, a.Reward), ToastSuccess)
	return nil
}
