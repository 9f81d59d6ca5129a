package game

import (
	"errors"
	"testing"
	"time"
)

func hire(e *Engine, id string) {
	m := e.manager(id)
	m.Hired = true
	m.Level = 1
}

func TestManagerSkillGuards(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	if res := e.TriggerManagerSkill("mgr_nobody"); res.Success || !errors.Is(res.Err, ErrUnknownID) {
		t.Fatalf("unexpected %+v", res)
	}
	if res := e.TriggerManagerSkill("mgr_lemon"); res.Success || !errors.Is(res.Err, ErrNotHired) {
		t.Fatalf("unexpected %+v", res)
	}
}

func TestInstantCashAndCooldown(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	e.state.Businesses[0].Level = 1
	hire(e, "mgr_lemon")

	res := e.TriggerManagerSkill("mgr_lemon")
	if !res.Success {
		t.Fatalf("skill failed: %+v", res)
	}
	// 10 base * 2 manager = 20/s for 30s
	if res.Amount != 600 || e.state.Money != 600 {
		t.Fatalf("amount=%v money=%v", res.Amount, e.state.Money)
	}

	clock.Advance(30 * time.Second)
	res = e.TriggerManagerSkill("mgr_lemon")
	if res.Success || !errors.Is(res.Err, ErrOnCooldown) {
		t.Fatalf("expected cooldown, got %+v", res)
	}
	if left, _ := e.SkillCooldown("mgr_lemon"); left != 30_000 {
		t.Fatalf("cooldown left got %d want 30000", left)
	}

	clock.Advance(30 * time.Second)
	if res := e.TriggerManagerSkill("mgr_lemon"); !res.Success {
		t.Fatalf("skill should be ready: %+v", res)
	}
}

func TestGemLuckRecordsUseEvenOnLoss(t *testing.T) {
	e, _ := newTestEngine(t, &scriptRoller{floats: []float64{0.4, 0.7}})
	hire(e, "mgr_bakery")
	res := e.TriggerManagerSkill("mgr_bakery")
	if !res.Success || e.state.Gems != StartingGems+5 {
		t.Fatalf("res=%+v gems=%d", res, e.state.Gems)
	}

	e.manager("mgr_bakery").Skill.LastUsed = 1
	res = e.TriggerManagerSkill("mgr_bakery")
	if !res.Success || e.state.Gems != StartingGems+5 {
		t.Fatalf("losing flip res=%+v gems=%d", res, e.state.Gems)
	}
	if e.manager("mgr_bakery").Skill.LastUsed != epoch.UnixMilli() {
		t.Fatalf("last used not recorded")
	}
}

func TestProfitBoostAndStockPump(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	hire(e, "mgr_tech")
	hire(e, "mgr_crypto")
	e.state.ActiveEvent = &GameEvent{ID: eventMarketCrash, Multiplier: 0.5, Duration: 15, StartTime: epoch.UnixMilli()}

	if res := e.TriggerManagerSkill("mgr_tech"); !res.Success {
		t.Fatalf("boost failed: %+v", res)
	}
	ev := e.state.ActiveEvent
	if ev.ID != eventProfitBoost || ev.Multiplier != 2 || ev.Duration != profitBoostSeconds {
		t.Fatalf("unexpected event %+v", ev)
	}

	if res := e.TriggerManagerSkill("mgr_crypto"); !res.Success {
		t.Fatalf("pump failed: %+v", res)
	}
	st := e.state.Stocks[0]
	if !almostEqual(st.Price, 110) || st.PreviousPrice != 100 || st.Trend != TrendBull {
		t.Fatalf("unexpected stock %+v", st)
	}
}
