package game

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestCalculateOfflineEarnings(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{name: "under threshold", elapsed: 4 * time.Second, want: 0},
		{name: "at threshold", elapsed: 5 * time.Second, want: 50},
		{name: "one hour", elapsed: time.Hour, want: 36_000},
		{name: "capped at a day", elapsed: 48 * time.Hour, want: 864_000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, clock := newTestEngine(t, nil)
			e.state.Businesses[0].Level = 1
			clock.Advance(tc.elapsed)
			got := e.CalculateOfflineEarnings()
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			s := e.Snapshot()
			if s.Money != tc.want || s.LifetimeEarnings != tc.want {
				t.Fatalf("money=%v lifetime=%v", s.Money, s.LifetimeEarnings)
			}
			if s.LastLogin != clock.Now().UnixMilli() {
				t.Fatalf("last login not updated")
			}
			if again := e.CalculateOfflineEarnings(); again != 0 {
				t.Fatalf("second call paid %v", again)
			}
		})
	}
}

func TestOfflineEarningsFloorsWithMultiplier(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	e.state.Businesses[0].Level = 1
	e.state.Investors = 3 // 1.06
	e.state.Weather = WeatherRain
	clock.Advance(7 * time.Second)
	want := math.Floor(10 * (1.06 * 0.8) * 7)
	if got := e.CalculateOfflineEarnings(); got != want {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestBuyTimeWarp(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.state.Businesses[0].Level = 1
	if err := e.BuyTimeWarp(1, StartingGems+1); !errors.Is(err, ErrInsufficientGems) {
		t.Fatalf("got %v want %v", err, ErrInsufficientGems)
	}
	if err := e.BuyTimeWarp(1, 20); err != nil {
		t.Fatalf("warp: %v", err)
	}
	if e.state.Money != 36_000 || e.state.Gems != StartingGems-20 {
		t.Fatalf("money=%v gems=%d", e.state.Money, e.state.Gems)
	}

	e.state.AngelUpgrades = []string{"au_4"}
	if got := e.TimeWarpValue(2); got != 108_000 {
		t.Fatalf("warp value with bonus got %v want 108000", got)
	}
}
