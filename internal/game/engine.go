package game

import (
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Roller is the randomness source. *math/rand.Rand satisfies it.
type Roller interface {
	Float64() float64
	Intn(n int) int
}

type Options struct {
	// State is used as-is when set. Run it through OverlayState first when it
	// comes from an older build with different catalogs.
	State  *State
	Now    func() time.Time
	Rand   Roller
	Logger *slog.Logger
}

// Engine owns one player's state. Every exported method is serialized
// behind a single mutex, so tick handlers and user actions never interleave.
type Engine struct {
	mu    sync.Mutex
	state *State
	now   func() time.Time
	rand  Roller
	log   *slog.Logger

	toast *Toast
	subs  map[int]chan Toast
	next  int
}

func New(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	state := opts.State
	if state == nil {
		state = DefaultState(opts.Now().UnixMilli())
	} else {
		state = state.Clone()
	}
	normalize(state)
	return &Engine{
		state: state,
		now:   opts.Now,
		rand:  opts.Rand,
		log:   opts.Logger,
		subs:  make(map[int]chan Toast),
	}
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() *State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// View runs fn against the live state under the engine lock. fn must not
// retain s or call back into the engine.
func (e *Engine) View(fn func(s *State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.state)
}

// Toast returns the visible notification, or nil once it has been shown for
// three seconds or dismissed.
func (e *Engine) Toast() *Toast {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.toast == nil {
		return nil
	}
	if e.nowMillis()-e.toast.ShownAt >= toastMillis {
		e.toast = nil
		return nil
	}
	t := *e.toast
	return &t
}

func (e *Engine) HideToast() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toast = nil
}

// Subscribe registers a listener for every toast. Sends never block; a full
// buffer drops the toast for that listener. The returned func unsubscribes.
func (e *Engine) Subscribe(buffer int) (<-chan Toast, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.next
	e.next++
	ch := make(chan Toast, buffer)
	e.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.subs, id)
			close(ch)
		})
	}
}

func (e *Engine) notify(msg string, kind ToastKind) {
	t := Toast{ID: uuid.NewString(), Message: msg, Kind: kind, ShownAt: e.nowMillis()}
	e.toast = &t
	for _, ch := range e.subs {
		select {
		case ch <- t:
		default:
		}
	}
}

func (e *Engine) nowMillis() int64 {
	return e.now().UnixMilli()
}

func (e *Engine) business(id string) *Business {
	for i := range e.state.Businesses {
		if e.state.Businesses[i].ID == id {
			return &e.state.Businesses[i]
		}
	}
	return nil
}

func (e *Engine) manager(id string) *Manager {
	for i := range e.state.Managers {
		if e.state.Managers[i].ID == id {
			return &e.state.Managers[i]
		}
	}
	return nil
}

func (e *Engine) managerFor(businessID string) *Manager {
	for i := range e.state.Managers {
		if e.state.Managers[i].BusinessID == businessID && e.state.Managers[i].Hired {
			return &e.state.Managers[i]
		}
	}
	return nil
}

func (e *Engine) research(id string) *ResearchItem {
	for i := range e.state.Research {
		if e.state.Research[i].ID == id {
			return &e.state.Research[i]
		}
	}
	return nil
}

func (e *Engine) stock(id string) *Stock {
	for i := range e.state.Stocks {
		if e.state.Stocks[i].ID == id {
			return &e.state.Stocks[i]
		}
	}
	return nil
}

func (e *Engine) skill(id string) *CeoSkill {
	for i := range e.state.Skills {
		if e.state.Skills[i].ID == id {
			return &e.state.Skills[i]
		}
	}
	return nil
}

func (e *Engine) hasAngel(id string) bool {
	return contains(e.state.AngelUpgrades, id)
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

// normalize fills nil collections so a decoded state behaves like a fresh one.
func normalize(s *State) {
	if s.Portfolio == nil {
		s.Portfolio = map[string]int64{}
	}
	if s.ClaimedAchievements == nil {
		s.ClaimedAchievements = []string{}
	}
	if s.AngelUpgrades == nil {
		s.AngelUpgrades = []string{}
	}
	if s.Missions == nil {
		s.Missions = []Mission{}
	}
	if s.Weather == "" {
		s.Weather = WeatherSunny
	}
	if s.Ceo.Level < 1 {
		s.Ceo.Level = 1
	}
	if s.Ceo.MaxXP <= 0 {
		s.Ceo.MaxXP = StartingMaxXP
	}
}
