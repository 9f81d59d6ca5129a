package game

import "fmt"

type SummonResult struct {
	Success   bool     `json:"success"`
	Manager   *Manager `json:"manager,omitempty"`
	Duplicate bool     `json:"duplicate"`
	Message   string   `json:"message"`
}

func rollRarity(roll float64) Rarity {
	switch {
	case roll > 0.95:
		return RarityLegendary
	case roll > 0.70:
		return RarityRare
	default:
		return RarityCommon
	}
}

// SummonManager spends SummonCost gems on a weighted rarity pull. A pull on an
// already hired manager converts into a free level.
func (e *Engine) SummonManager() SummonResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Gems < SummonCost {
		return SummonResult{Message: fmt.Sprintf("Not enough gems! Need %d.", SummonCost)}
	}
	e.state.Gems -= SummonCost

	rarity := rollRarity(e.rand.Float64())
	var pool []int
	for i, m := range e.state.Managers {
		if m.Rarity == rarity {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		for i := range e.state.Managers {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		e.state.Gems += SummonCost
		return SummonResult{Message: "No managers available."}
	}
	m := &e.state.Managers[pool[e.rand.Intn(len(pool))]]

	res := SummonResult{Success: true}
	if m.Hired {
		m.Level++
		res.Duplicate = true
		res.Message = fmt.Sprintf("Duplicate %s! Upgraded to level %d.", m.Name, m.Level)
	} else {
		m.Hired = true
		m.Level = 1
		res.Message = fmt.Sprintf("Summoned %s (%s)!", m.Name, m.Rarity)
	}
	out := *m
	res.Manager = &out
	e.log.Info("manager summoned", "manager", m.ID, "rarity", m.Rarity, "duplicate", res.Duplicate)
	e.notify(res.Message, ToastSuccess)
	return res
}
