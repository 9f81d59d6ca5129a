package game

import (
	"fmt"
	"math"
)

var milestoneLevels = map[int]bool{25: true, 50: true, 100: true, 200: true}

// BuyBusiness unlocks a business at level 1 for its unlock cost.
func (e *Engine) BuyBusiness(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	b := e.business(id)
	if b == nil {
		return ErrUnknownID
	}
	if b.Owned {
		return ErrAlreadyOwned
	}
	if !e.spend(b.UnlockCost) {
		return ErrInsufficientFunds
	}
	b.Owned = true
	b.Level = 1
	e.checkMissions(MissionSpend, b.UnlockCost)
	e.notify(fmt.Sprintf("Unlocked %s!", b.Name), ToastSuccess)
	return nil
}

// UpgradeCost is the discounted price of the next level.
func (e *Engine) UpgradeCost(id string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b := e.business(id)
	if b == nil {
		return 0, ErrUnknownID
	}
	return upgradeCost(e.state, b), nil
}

func upgradeCost(s *State, b *Business) float64 {
	raw := math.Floor(b.BaseCost * math.Pow(1.15, float64(b.Level)))
	return math.Floor(raw * (1 - discount(s)))
}

// UpgradeBusiness buys one level. Crossing a milestone level doubles the base
// revenue, and every upgrade has a small chance to uncover an artifact.
func (e *Engine) UpgradeBusiness(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	b := e.business(id)
	if b == nil {
		return ErrUnknownID
	}
	if !b.Owned {
		return ErrNotOwned
	}
	cost := upgradeCost(e.state, b)
	if !e.spend(cost) {
		return ErrInsufficientFunds
	}
	b.Level++
	if milestoneLevels[b.Level] {
		b.BaseRevenue *= 2
		e.notify(fmt.Sprintf("Milestone! %s revenue doubled", b.Name), ToastSuccess)
	}
	e.state.Stats.TotalBizUpgrades++
	e.rollFreeArtifact()
	e.checkMissions(MissionSpend, cost)
	return nil
}

// ResearchCost is the price of the next level of a research item.
func ResearchCost(r ResearchItem) float64 {
	return math.Floor(r.BaseCost * math.Pow(2, float64(r.CurrentLevel)))
}

func (e *Engine) BuyResearch(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.research(id)
	if r == nil {
		return ErrUnknownID
	}
	if r.CurrentLevel >= r.MaxLevel {
		return ErrMaxLevel
	}
	if !e.spend(ResearchCost(*r)) {
		return ErrInsufficientFunds
	}
	r.CurrentLevel++
	e.notify(fmt.Sprintf("%s researched (level %d)", r.Name, r.CurrentLevel), ToastSuccess)
	return nil
}

// BuyAngelUpgrade spends investors on a permanent upgrade. Buying an owned
// upgrade is a no-op.
func (e *Engine) BuyAngelUpgrade(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	u, ok := angelByID(id)
	if !ok {
		return ErrUnknownID
	}
	if e.hasAngel(id) {
		return nil
	}
	if e.state.Investors < u.Cost {
		return ErrInsufficientInvestors
	}
	e.state.Investors -= u.Cost
	e.state.AngelUpgrades = append(e.state.AngelUpgrades, id)
	e.notify(fmt.Sprintf("Purchased %s", u.Name), ToastSuccess)
	return nil
}

// HireManager hires a manager outright for money.
func (e *Engine) HireManager(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.manager(id)
	if m == nil {
		return ErrUnknownID
	}
	if m.Hired {
		return ErrAlreadyOwned
	}
	if !e.spend(m.Cost) {
		return ErrInsufficientFunds
	}
	m.Hired = true
	m.Level = max(m.Level, 1)
	e.notify(fmt.Sprintf("Hired %s", m.Name), ToastSuccess)
	return nil
}

// ManagerUpgradeCost is the price of the next manager level.
func ManagerUpgradeCost(m Manager) float64 {
	return m.Cost * 10 * float64(max(m.Level, 1))
}

func (e *Engine) UpgradeManager(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.manager(id)
	if m == nil {
		return ErrUnknownID
	}
	if !m.Hired {
		return ErrNotHired
	}
	if !e.spend(ManagerUpgradeCost(*m)) {
		return ErrInsufficientFunds
	}
	m.Level++
	return nil
}

// UpgradeCeoSkill spends skill points on one level of a CEO skill.
func (e *Engine) UpgradeCeoSkill(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	sk := e.skill(id)
	if sk == nil {
		return ErrUnknownID
	}
	if sk.Level >= sk.MaxLevel {
		return ErrMaxLevel
	}
	if e.state.Ceo.SkillPoints < sk.Cost {
		return ErrInsufficientPoints
	}
	e.state.Ceo.SkillPoints -= sk.Cost
	sk.Level++
	return nil
}
