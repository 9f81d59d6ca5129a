package game

import "math"

// GlobalMultiplier composes every global bonus source multiplicatively.
func (e *Engine) GlobalMultiplier() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return globalMultiplier(e.state)
}

// BusinessRevenue is the per-second revenue of one business before the
// global multiplier is applied.
func (e *Engine) BusinessRevenue(id string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return businessRevenue(e.state, id)
}

// RevenuePerSecond is the passive income of every owned business with the
// global multiplier applied.
func (e *Engine) RevenuePerSecond() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return baseIncome(e.state) * globalMultiplier(e.state)
}

func globalMultiplier(s *State) float64 {
	investorMult := 1 + float64(s.Investors)*InvestorBonus

	researchMult := 1.0
	for _, r := range s.Research {
		researchMult += float64(r.CurrentLevel) * r.MultiplierPerLevel
	}

	eventMult := 1.0
	if s.ActiveEvent != nil {
		eventMult = s.ActiveEvent.Multiplier
	}

	angelMult := 1.0
	for _, id := range s.AngelUpgrades {
		u, ok := angelByID(id)
		if !ok {
			continue
		}
		switch u.Effect {
		case AngelProfitMult:
			angelMult *= u.Value
		case AngelCostDisc, AngelTimeWarp:
		}
	}

	weatherMult, ok := weatherTable[s.Weather]
	if !ok {
		weatherMult = 1
	}

	skillBonus := 1.0
	for _, sk := range s.Skills {
		switch sk.Effect {
		case SkillIdleBonus:
			skillBonus += float64(sk.Level) * sk.ValuePerLevel
		case SkillTapBonus, SkillUpgradeDiscount:
		}
	}

	artifactBonus := 1.0
	for _, a := range s.Artifacts {
		if !a.Owned {
			continue
		}
		switch a.Effect {
		case ArtifactGlobalMult:
			artifactBonus *= a.Value
		case ArtifactLuckBoost, ArtifactDiscount, ArtifactTapBoost:
		}
	}

	comboBonus := 1 + s.Combo/100

	return investorMult * researchMult * eventMult * angelMult * weatherMult * skillBonus * artifactBonus * comboBonus
}

func businessRevenue(s *State, id string) float64 {
	var b *Business
	for i := range s.Businesses {
		if s.Businesses[i].ID == id {
			b = &s.Businesses[i]
			break
		}
	}
	if b == nil || !b.Owned || b.Level <= 0 {
		return 0
	}
	rev := b.BaseRevenue * float64(b.Level)
	for _, m := range s.Managers {
		if m.Hired && m.BusinessID == id {
			rev *= m.Multiplier * float64(max(m.Level, 1))
			break
		}
	}
	return rev * synergyMultiplier(s, id)
}

// synergyMultiplier multiplies every fully owned synergy that includes id.
func synergyMultiplier(s *State, id string) float64 {
	mult := 1.0
	for _, syn := range synergies {
		if !contains(syn.BusinessIDs, id) {
			continue
		}
		if allOwned(s, syn.BusinessIDs) {
			mult *= syn.Multiplier
		}
	}
	return mult
}

func allOwned(s *State, ids []string) bool {
	for _, id := range ids {
		owned := false
		for _, b := range s.Businesses {
			if b.ID == id && b.Owned {
				owned = true
				break
			}
		}
		if !owned {
			return false
		}
	}
	return true
}

// ActiveSynergies lists the synergies whose member businesses are all owned.
func (e *Engine) ActiveSynergies() []Synergy {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Synergy
	for _, syn := range Synergies() {
		if allOwned(e.state, syn.BusinessIDs) {
			out = append(out, syn)
		}
	}
	return out
}

func baseIncome(s *State) float64 {
	total := 0.0
	for _, b := range s.Businesses {
		total += businessRevenue(s, b.ID)
	}
	return total
}

// discount sums every upgrade discount source, capped at MaxDiscount.
func discount(s *State) float64 {
	d := 0.0
	for _, id := range s.AngelUpgrades {
		if u, ok := angelByID(id); ok && u.Effect == AngelCostDisc {
			d += u.Value
		}
	}
	for _, sk := range s.Skills {
		if sk.Effect == SkillUpgradeDiscount {
			d += float64(sk.Level) * sk.ValuePerLevel
		}
	}
	for _, a := range s.Artifacts {
		if a.Owned && a.Effect == ArtifactDiscount {
			d += a.Value
		}
	}
	return math.Min(d, MaxDiscount)
}

func luck(s *State) float64 {
	l := 0.0
	for _, a := range s.Artifacts {
		if a.Owned && a.Effect == ArtifactLuckBoost {
			l += a.Value
		}
	}
	return l
}

func tapMultiplier(s *State) float64 {
	bonus := 1.0
	for _, sk := range s.Skills {
		if sk.Effect == SkillTapBonus {
			bonus += float64(sk.Level) * sk.ValuePerLevel
		}
	}
	boost := 1.0
	for _, a := range s.Artifacts {
		if a.Owned && a.Effect == ArtifactTapBoost {
			boost *= a.Value
		}
	}
	return bonus * boost
}

func timeWarpBonus(s *State) float64 {
	b := 0.0
	for _, id := range s.AngelUpgrades {
		if u, ok := angelByID(id); ok && u.Effect == AngelTimeWarp {
			b += u.Value
		}
	}
	return b
}
