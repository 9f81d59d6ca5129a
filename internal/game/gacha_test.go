package game

import (
	"reflect"
	"testing"
)

func TestSummonWithoutGems(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	before := e.Snapshot()
	res := e.SummonManager()
	if res.Success {
		t.Fatalf("summon with %d gems should fail", before.Gems)
	}
	if res.Message == "" {
		t.Fatalf("expected a failure message")
	}
	if !reflect.DeepEqual(before, e.Snapshot()) {
		t.Fatalf("state changed on failed summon")
	}
}

func TestSummonRarityRolls(t *testing.T) {
	tests := []struct {
		name string
		roll float64
		pick int
		want string
	}{
		{name: "legendary", roll: 0.99, pick: 2, want: "mgr_ai"},
		{name: "rare", roll: 0.8, pick: 0, want: "mgr_crypto"},
		{name: "common", roll: 0.2, pick: 1, want: "mgr_bakery"},
		{name: "threshold is exclusive", roll: 0.95, pick: 0, want: "mgr_crypto"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine(t, &scriptRoller{floats: []float64{tc.roll}, ints: []int{tc.pick}})
			e.state.Gems = SummonCost
			res := e.SummonManager()
			if !res.Success || res.Manager == nil {
				t.Fatalf("summon failed: %+v", res)
			}
			if res.Manager.ID != tc.want {
				t.Fatalf("got %s want %s", res.Manager.ID, tc.want)
			}
			m := mustManager(t, e.Snapshot(), tc.want)
			if !m.Hired || m.Level != 1 {
				t.Fatalf("unexpected manager %+v", m)
			}
			if e.state.Gems != 0 {
				t.Fatalf("gems got %d want 0", e.state.Gems)
			}
		})
	}
}

func TestSummonDuplicateLevelsUp(t *testing.T) {
	e, _ := newTestEngine(t, &scriptRoller{floats: []float64{0.1, 0.1}, ints: []int{0, 0}})
	e.state.Gems = 2 * SummonCost
	first := e.SummonManager()
	second := e.SummonManager()
	if first.Duplicate || !second.Duplicate {
		t.Fatalf("duplicate flags first=%v second=%v", first.Duplicate, second.Duplicate)
	}
	if m := mustManager(t, e.Snapshot(), "mgr_lemon"); m.Level != 2 {
		t.Fatalf("level got %d want 2", m.Level)
	}
}
