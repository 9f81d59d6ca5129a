package game

import (
	"fmt"
	"math"
)

// AddMoney credits amount. Positive amounts also count toward lifetime
// earnings and CEO XP; negative amounts are penalties clamped at zero and
// never reduce lifetime earnings.
func (e *Engine) AddMoney(amount float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addMoney(amount)
}

func (e *Engine) addMoney(amount float64) {
	s := e.state
	if amount <= 0 {
		s.Money = math.Max(0, s.Money+amount)
		return
	}
	s.Money += amount
	s.LifetimeEarnings += amount
	s.Stats.TotalEarnings += amount
	e.grantXP(max(1, int64(math.Floor(amount/100))))
}

func (e *Engine) grantXP(xp int64) {
	ceo := &e.state.Ceo
	ceo.XP += xp
	leveled := false
	for ceo.MaxXP > 0 && ceo.XP >= ceo.MaxXP {
		ceo.XP -= ceo.MaxXP
		ceo.Level++
		ceo.MaxXP = int64(math.Floor(float64(ceo.MaxXP) * 1.5))
		ceo.SkillPoints++
		leveled = true
	}
	if leveled {
		e.log.Info("ceo level up", "level", ceo.Level, "skill_points", ceo.SkillPoints)
		e.notify(fmt.Sprintf("Level Up! CEO is now level %d", ceo.Level), ToastSuccess)
	}
}

// spend deducts cost if affordable.
func (e *Engine) spend(cost float64) bool {
	if cost < 0 || e.state.Money < cost {
		return false
	}
	e.state.Money -= cost
	return true
}

func (e *Engine) AddGems(amount int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Gems = max(0, e.state.Gems+amount)
}

// RegisterTap records one manual tap: stats, combo and TAP missions.
func (e *Engine) RegisterTap() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registerTap()
}

func (e *Engine) registerTap() {
	s := e.state
	s.Stats.TotalTaps++
	s.Combo = math.Min(MaxCombo, s.Combo+ComboStep)
	if s.Combo > s.MaxCombo {
		s.MaxCombo = s.Combo
	}
	e.checkMissions(MissionTap, 1)
}

// Tap earns the manual tap value and registers the tap. It returns the
// amount credited.
func (e *Engine) Tap() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	earned := BaseTapPower * globalMultiplier(e.state) * tapMultiplier(e.state)
	e.addMoney(earned)
	e.registerTap()
	e.checkMissions(MissionEarn, earned)
	return earned
}

// DecayCombo lowers the combo by one step, never below zero.
func (e *Engine) DecayCombo() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Combo = math.Max(0, e.state.Combo-ComboDecay)
}

// ClaimDailyReward grants DailyGems once per 24 hours.
func (e *Engine) ClaimDailyReward() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.nowMillis()
	if now-e.state.LastDailyReward < dayMillis {
		return false
	}
	e.state.Gems += DailyGems
	e.state.LastDailyReward = now
	e.notify(fmt.Sprintf("Daily reward: +%d gems", DailyGems), ToastSuccess)
	return true
}

func (e *Engine) ToggleSfx() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Settings.Sfx = !e.state.Settings.Sfx
	return e.state.Settings.Sfx
}

func (e *Engine) ToggleHaptics() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Settings.Haptics = !e.state.Settings.Haptics
	return e.state.Settings.Haptics
}
