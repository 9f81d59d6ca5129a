package game

import (
	"testing"
	"time"
)

func TestAccrueIncome(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	e.state.Businesses[0].Level = 2
	clock.Advance(time.Second)
	if got := e.AccrueIncome(); got != 20 {
		t.Fatalf("got %v want 20", got)
	}
	if got := e.AccrueIncome(); got != 0 {
		t.Fatalf("immediate second accrual got %v", got)
	}
	clock.Advance(time.Minute)
	if got := e.AccrueIncome(); got != 20*foregroundCapSeconds {
		t.Fatalf("capped accrual got %v want %v", got, 20*foregroundCapSeconds)
	}
	if e.state.LifetimeEarnings != 20+20*foregroundCapSeconds {
		t.Fatalf("lifetime got %v", e.state.LifetimeEarnings)
	}
}

func TestHandleTick(t *testing.T) {
	e, clock := newTestEngine(t, &scriptRoller{floats: []float64{0.97}})
	e.state.Combo = 10
	e.state.ActiveEvent = &GameEvent{ID: "x", Multiplier: 2, Duration: 1, StartTime: epoch.UnixMilli()}
	clock.Advance(2 * time.Second)

	for _, kind := range []TickKind{TickIncome, TickWeather, TickCombo, TickAutosave} {
		if err := e.HandleTick(kind); err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
	}
	s := e.Snapshot()
	if s.ActiveEvent != nil {
		t.Fatalf("income tick should expire the event")
	}
	if s.Weather != WeatherGoldenHour {
		t.Fatalf("weather got %s", s.Weather)
	}
	if s.Combo != 9 {
		t.Fatalf("combo got %v want 9", s.Combo)
	}
	if err := e.HandleTick("bogus"); err == nil {
		t.Fatalf("expected error for unknown tick")
	}
}
