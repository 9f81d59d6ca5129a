package game

import (
	"fmt"
	"math"
)

type PrestigeResult struct {
	Success bool   `json:"success"`
	Gained  int64  `json:"gained"`
	Message string `json:"message"`
}

// PotentialInvestors is the investor total lifetime earnings would justify.
// It saturates at math.MaxInt64.
func PotentialInvestors(lifetime float64) int64 {
	if !(lifetime > 0) {
		return 0
	}
	n := math.Floor(math.Sqrt(lifetime / InvestorDivisor))
	if n >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

// PrestigeGain is how many investors a prestige right now would add.
func (e *Engine) PrestigeGain() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return max(0, PotentialInvestors(e.state.LifetimeEarnings)-e.state.Investors)
}

// Prestige trades current progress for investors. Businesses, research,
// stocks, portfolio and the active event reset to their catalog defaults;
// managers, artifacts, angel upgrades, CEO progress, skills, stats and
// lifetime earnings carry over. With nothing to gain, state is untouched.
func (e *Engine) Prestige() PrestigeResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.state
	gain := PotentialInvestors(s.LifetimeEarnings) - s.Investors
	if gain <= 0 {
		return PrestigeResult{Message: "Not enough lifetime earnings to attract new investors."}
	}
	s.Investors += gain
	s.Money = 0
	s.Businesses = defaultBusinesses()
	s.Research = defaultResearch()
	s.Stocks = defaultStocks()
	s.Portfolio = map[string]int64{}
	s.ActiveEvent = nil
	s.LastLogin = e.nowMillis()
	s.Gems += PrestigeGems

	msg := fmt.Sprintf("Prestiged! +%d investors", gain)
	e.log.Info("prestige", "gained", gain, "investors", s.Investors)
	e.notify(msg, ToastSuccess)
	return PrestigeResult{Success: true, Gained: gain, Message: msg}
}
