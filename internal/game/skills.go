package game

import (
	"fmt"
	"math"
)

type SkillResult struct {
	Success bool             `json:"success"`
	Kind    ManagerSkillKind `json:"kind,omitempty"`
	Amount  float64          `json:"amount,omitempty"`
	Message string           `json:"message"`
	Err     error            `json:"-"`
}

const profitBoostSeconds = 30

// TriggerManagerSkill fires a hired manager's active ability if it is off
// cooldown. LastUsed is recorded on every invocation that gets past the
// guards, including a losing gem flip.
func (e *Engine) TriggerManagerSkill(id string) SkillResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.manager(id)
	if m == nil {
		return SkillResult{Message: ErrUnknownID.Error(), Err: ErrUnknownID}
	}
	if !m.Hired {
		return SkillResult{Message: ErrNotHired.Error(), Err: ErrNotHired}
	}
	now := e.nowMillis()
	if remaining := m.Skill.LastUsed + m.Skill.CooldownSeconds*1000 - now; m.Skill.LastUsed > 0 && remaining > 0 {
		return SkillResult{Message: fmt.Sprintf("%s: %ds left", ErrOnCooldown, int64(math.Ceil(float64(remaining)/1000))), Err: ErrOnCooldown}
	}
	m.Skill.LastUsed = now

	res := SkillResult{Success: true, Kind: m.Skill.Kind}
	switch m.Skill.Kind {
	case ManagerInstantCash:
		res.Amount = e.incomeFor(m.Skill.Value)
		e.addMoney(res.Amount)
		res.Message = fmt.Sprintf("%s made $%s instantly!", m.Name, FormatCurrency(res.Amount))
	case ManagerStockPump:
		for i := range e.state.Stocks {
			st := &e.state.Stocks[i]
			st.PreviousPrice = st.Price
			st.Price = clampPrice(st.Price * (1 + m.Skill.Value))
			st.Trend = TrendBull
		}
		res.Message = fmt.Sprintf("%s pumped the market!", m.Name)
	case ManagerGemLuck:
		if e.rand.Float64() < 0.5+luck(e.state) {
			res.Amount = m.Skill.Value
			e.state.Gems += int64(m.Skill.Value)
			res.Message = fmt.Sprintf("%s found %d gems!", m.Name, int64(m.Skill.Value))
		} else {
			res.Message = fmt.Sprintf("%s came back empty-handed.", m.Name)
		}
	case ManagerProfitBoost:
		e.state.ActiveEvent = &GameEvent{
			ID:         eventProfitBoost,
			Name:       m.Name + " Boost",
			Multiplier: m.Skill.Value,
			Duration:   profitBoostSeconds,
			StartTime:  now,
		}
		res.Message = fmt.Sprintf("%s boosted profits x%g!", m.Name, m.Skill.Value)
	default:
		res.Success = false
		res.Message = "unknown skill"
		return res
	}
	e.notify(res.Message, ToastSuccess)
	return res
}

// SkillCooldown reports how long until a manager's skill is ready again.
func (e *Engine) SkillCooldown(id string) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.manager(id)
	if m == nil {
		return 0, ErrUnknownID
	}
	if m.Skill.LastUsed == 0 {
		return 0, nil
	}
	remaining := m.Skill.LastUsed + m.Skill.CooldownSeconds*1000 - e.nowMillis()
	return max(0, remaining), nil
}
