package game

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func TestPrestigeWithoutGainLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name      string
		lifetime  float64
		investors int64
	}{
		{name: "fresh", lifetime: 0},
		{name: "below first investor", lifetime: 9_999},
		{name: "already claimed", lifetime: 1_000_000, investors: 10},
		{name: "spent on angels", lifetime: 1_000_000, investors: 12},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, clock := newTestEngine(t, nil)
			e.state.LifetimeEarnings = tc.lifetime
			e.state.Investors = tc.investors
			e.state.Money = 123
			before := e.Snapshot()
			clock.Advance(time.Minute)
			res := e.Prestige()
			if res.Success || res.Gained != 0 {
				t.Fatalf("unexpected result %+v", res)
			}
			if !reflect.DeepEqual(before, e.Snapshot()) {
				t.Fatalf("state changed")
			}
		})
	}
}

func TestPrestigeCarryover(t *testing.T) {
	e, clock := newTestEngine(t, &scriptRoller{ints: []int{30}})
	s := e.state
	s.Money = 5e6
	s.LifetimeEarnings = 1_000_000
	s.Investors = 4
	s.Gems = 7
	s.Businesses[0].Level = 40
	s.Businesses[0].BaseRevenue = 20
	s.Research[0].CurrentLevel = 3
	s.Portfolio["stk_tech"] = 9
	s.Stocks[0].Price = 500
	s.Managers[0].Hired = true
	s.Managers[0].Level = 3
	s.Artifacts[0].Owned = true
	s.AngelUpgrades = []string{"au_1"}
	s.Ceo = Ceo{Level: 4, XP: 10, MaxXP: 3_375, SkillPoints: 2}
	s.Skills[0].Level = 1
	s.Stats.TotalTaps = 42
	e.state.ActiveEvent = &GameEvent{ID: "x", Multiplier: 2, Duration: 60, StartTime: epoch.UnixMilli()}

	before := e.Snapshot()
	clock.Advance(time.Minute)
	res := e.Prestige()
	if !res.Success || res.Gained != 6 {
		t.Fatalf("unexpected result %+v", res)
	}
	after := e.Snapshot()

	if after.Money != 0 {
		t.Fatalf("money got %v want 0", after.Money)
	}
	if after.Investors != 10 {
		t.Fatalf("investors got %d want 10", after.Investors)
	}
	if after.Gems != 7+PrestigeGems {
		t.Fatalf("gems got %d want %d", after.Gems, 7+PrestigeGems)
	}
	if !reflect.DeepEqual(after.Businesses, defaultBusinesses()) {
		t.Fatalf("businesses not reset")
	}
	if !reflect.DeepEqual(after.Research, defaultResearch()) {
		t.Fatalf("research not reset")
	}
	if !reflect.DeepEqual(after.Stocks, defaultStocks()) {
		t.Fatalf("stocks not reset")
	}
	if len(after.Portfolio) != 0 || after.ActiveEvent != nil {
		t.Fatalf("portfolio=%v event=%v", after.Portfolio, after.ActiveEvent)
	}
	if after.LastLogin != clock.Now().UnixMilli() {
		t.Fatalf("last login not reset")
	}

	carried := []struct {
		name          string
		before, after any
	}{
		{"managers", before.Managers, after.Managers},
		{"artifacts", before.Artifacts, after.Artifacts},
		{"angel upgrades", before.AngelUpgrades, after.AngelUpgrades},
		{"ceo", before.Ceo, after.Ceo},
		{"skills", before.Skills, after.Skills},
		{"stats", before.Stats, after.Stats},
		{"lifetime", before.LifetimeEarnings, after.LifetimeEarnings},
	}
	for _, c := range carried {
		if !reflect.DeepEqual(c.before, c.after) {
			t.Fatalf("%s not carried over: before=%v after=%v", c.name, c.before, c.after)
		}
	}
}

func TestPotentialInvestors(t *testing.T) {
	tests := []struct {
		lifetime float64
		want     int64
	}{
		{0, 0},
		{9_999, 0},
		{10_000, 1},
		{1_000_000, 10},
		{1e10, 1_000},
		{1e45, math.MaxInt64},
		{math.Inf(1), math.MaxInt64},
		{math.NaN(), 0},
	}
	for _, tc := range tests {
		if got := PotentialInvestors(tc.lifetime); got != tc.want {
			t.Fatalf("lifetime=%v got %d want %d", tc.lifetime, got, tc.want)
		}
	}
}

func TestPrestigeAtHugeLifetime(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.LifetimeEarnings = 1e45
	e.state.Investors = 5
	if got := e.PrestigeGain(); got != math.MaxInt64-5 {
		t.Fatalf("gain got %d want %d", got, int64(math.MaxInt64-5))
	}
	res := e.Prestige()
	if !res.Success || res.Gained != math.MaxInt64-5 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := e.Snapshot().Investors; got != math.MaxInt64 {
		t.Fatalf("investors got %d want MaxInt64", got)
	}
}
