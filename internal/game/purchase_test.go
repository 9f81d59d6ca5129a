package game

import (
	"errors"
	"reflect"
	"testing"
)

func TestUpgradeLemonadeScenario(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Money = 1_000
	if err := e.UpgradeBusiness("lemonade"); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	s := e.Snapshot()
	if got := mustBusiness(t, s, "lemonade").Level; got != 1 {
		t.Fatalf("level got %d want 1", got)
	}
	if s.Money != 900 {
		t.Fatalf("money got %v want 900", s.Money)
	}
	if s.Stats.TotalBizUpgrades != 1 {
		t.Fatalf("upgrades got %d want 1", s.Stats.TotalBizUpgrades)
	}
}

func TestUpgradeBusinessGuards(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		money float64
		want  error
	}{
		{name: "not owned", id: "bakery", money: 1e9, want: ErrNotOwned},
		{name: "broke", id: "lemonade", money: 99, want: ErrInsufficientFunds},
		{name: "unknown", id: "moon_base", money: 1e9, want: ErrUnknownID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine(t, nil)
			e.state.Money = tc.money
			before := e.Snapshot()
			err := e.UpgradeBusiness(tc.id)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
			if !reflect.DeepEqual(before, e.Snapshot()) {
				t.Fatalf("state changed on failed upgrade")
			}
		})
	}
}

func TestUpgradeCostGrowthAndDiscount(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Businesses[0].Level = 10
	cost, err := e.UpgradeCost("lemonade")
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != 404 { // floor(100 * 1.15^10)
		t.Fatalf("cost got %v want 404", cost)
	}

	e.state.AngelUpgrades = []string{"au_2"}
	e.state.Artifacts[2].Owned = true
	cost, _ = e.UpgradeCost("lemonade")
	if cost != 323 { // floor(404 * 0.8)
		t.Fatalf("discounted cost got %v want 323", cost)
	}
}

func TestUpgradeMilestoneDoublesRevenueOnce(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Businesses[0].Level = 24
	e.state.Money = 1e9
	if err := e.UpgradeBusiness("lemonade"); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if got := e.business("lemonade").BaseRevenue; got != 20 {
		t.Fatalf("revenue at 25 got %v want 20", got)
	}
	if err := e.UpgradeBusiness("lemonade"); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if got := e.business("lemonade").BaseRevenue; got != 20 {
		t.Fatalf("revenue at 26 got %v want 20", got)
	}
}

func TestUpgradeCanFindArtifact(t *testing.T) {
	e, _ := newTestEngine(t, &scriptRoller{floats: []float64{0.01}, ints: []int{1}})
	e.state.Money = 1_000
	if err := e.UpgradeBusiness("lemonade"); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if !e.state.Artifacts[1].Owned {
		t.Fatalf("expected art_cat to be found")
	}
	for i, a := range e.state.Artifacts {
		if i != 1 && a.Owned {
			t.Fatalf("unexpected artifact %s owned", a.ID)
		}
	}
}

func TestBuyBusiness(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.RefreshMissions()
	if err := e.BuyBusiness("bakery"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v want %v", err, ErrInsufficientFunds)
	}
	e.state.Money = 600
	if err := e.BuyBusiness("bakery"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	b := mustBusiness(t, e.Snapshot(), "bakery")
	if !b.Owned || b.Level != 1 {
		t.Fatalf("unexpected bakery %+v", b)
	}
	if e.state.Money != 100 {
		t.Fatalf("money got %v want 100", e.state.Money)
	}
	if err := e.BuyBusiness("bakery"); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("got %v want %v", err, ErrAlreadyOwned)
	}
	for _, m := range e.state.Missions {
		if m.Type == MissionSpend && m.Current != 500 {
			t.Fatalf("spend mission got %v want 500", m.Current)
		}
	}
}

func TestBuyResearch(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Money = 200_000
	if err := e.BuyResearch("res_marketing"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if err := e.BuyResearch("res_marketing"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if e.state.Money != 50_000 {
		t.Fatalf("money got %v want 50000", e.state.Money)
	}
	if err := e.BuyResearch("res_marketing"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("got %v want %v", err, ErrInsufficientFunds)
	}

	e.state.Research[3].CurrentLevel = e.state.Research[3].MaxLevel
	e.state.Money = 1e12
	if err := e.BuyResearch("res_quantum"); !errors.Is(err, ErrMaxLevel) {
		t.Fatalf("got %v want %v", err, ErrMaxLevel)
	}
}

func TestBuyAngelUpgradeScenario(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Investors = 9
	before := e.Snapshot()
	if err := e.BuyAngelUpgrade("au_1"); !errors.Is(err, ErrInsufficientInvestors) {
		t.Fatalf("got %v want %v", err, ErrInsufficientInvestors)
	}
	if !reflect.DeepEqual(before, e.Snapshot()) {
		t.Fatalf("state changed on failed purchase")
	}

	e.state.Investors = 10
	if err := e.BuyAngelUpgrade("au_1"); err != nil {
		t.Fatalf("buy: %v", err)
	}
	s := e.Snapshot()
	if s.Investors != 0 || !reflect.DeepEqual(s.AngelUpgrades, []string{"au_1"}) {
		t.Fatalf("investors=%d upgrades=%v", s.Investors, s.AngelUpgrades)
	}

	e.state.Investors = 10
	if err := e.BuyAngelUpgrade("au_1"); err != nil {
		t.Fatalf("repeat buy: %v", err)
	}
	if e.state.Investors != 10 || len(e.state.AngelUpgrades) != 1 {
		t.Fatalf("repeat buy should be a no-op")
	}
}

func TestManagers(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	if err := e.UpgradeManager("mgr_lemon"); !errors.Is(err, ErrNotHired) {
		t.Fatalf("got %v want %v", err, ErrNotHired)
	}
	e.state.Money = 11_000
	if err := e.HireManager("mgr_lemon"); err != nil {
		t.Fatalf("hire: %v", err)
	}
	if err := e.HireManager("mgr_lemon"); !errors.Is(err, ErrAlreadyOwned) {
		t.Fatalf("got %v want %v", err, ErrAlreadyOwned)
	}
	if err := e.UpgradeManager("mgr_lemon"); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	m := mustManager(t, e.Snapshot(), "mgr_lemon")
	if m.Level != 2 || e.state.Money != 0 {
		t.Fatalf("level=%d money=%v", m.Level, e.state.Money)
	}
	if got := ManagerUpgradeCost(m); got != 20_000 {
		t.Fatalf("next cost got %v want 20000", got)
	}
}

func TestUpgradeCeoSkill(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	if err := e.UpgradeCeoSkill("skill_negotiator"); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("got %v want %v", err, ErrInsufficientPoints)
	}
	e.state.Ceo.SkillPoints = 3
	if err := e.UpgradeCeoSkill("skill_negotiator"); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if e.state.Ceo.SkillPoints != 1 || e.state.Skills[1].Level != 1 {
		t.Fatalf("points=%d level=%d", e.state.Ceo.SkillPoints, e.state.Skills[1].Level)
	}
	e.state.Skills[0].Level = e.state.Skills[0].MaxLevel
	if err := e.UpgradeCeoSkill("skill_midas"); !errors.Is(err, ErrMaxLevel) {
		t.Fatalf("got %v want %v", err, ErrMaxLevel)
	}
}
