package game

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

// scriptRoller replays fixed values. Once a queue is drained Float64 returns
// 0.99 and Intn returns 0.
type scriptRoller struct {
	floats []float64
	ints   []int
}

func (r *scriptRoller) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptRoller) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, r *scriptRoller) (*Engine, *fakeClock) {
	t.Helper()
	if r == nil {
		r = &scriptRoller{}
	}
	clock := &fakeClock{t: epoch}
	e := New(Options{
		Now:    clock.Now,
		Rand:   r,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return e, clock
}

func mustBusiness(t *testing.T, s *State, id string) Business {
	t.Helper()
	for _, b := range s.Businesses {
		if b.ID == id {
			return b
		}
	}
	t.Fatalf("business %q not found", id)
	return Business{}
}

func mustManager(t *testing.T, s *State, id string) Manager {
	t.Helper()
	for _, m := range s.Managers {
		if m.ID == id {
			return m
		}
	}
	t.Fatalf("manager %q not found", id)
	return Manager{}
}

func mustStock(t *testing.T, s *State, id string) Stock {
	t.Helper()
	for _, st := range s.Stocks {
		if st.ID == id {
			return st
		}
	}
	t.Fatalf("stock %q not found", id)
	return Stock{}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= 1e-9*max(1, a, b)
}
