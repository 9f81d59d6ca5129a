package game

import (
	"fmt"
	"math"
)

type TickKind string

const (
	TickIncome   TickKind = "income"
	TickStocks   TickKind = "stocks"
	TickWeather  TickKind = "weather"
	TickCombo    TickKind = "combo"
	TickEvents   TickKind = "events"
	TickAutosave TickKind = "autosave"
)

// TickKinds lists every tick in dispatch order.
var TickKinds = []TickKind{TickIncome, TickStocks, TickWeather, TickCombo, TickEvents, TickAutosave}

// foregroundCapSeconds bounds a single income tick. Longer gaps are paid by
// CalculateOfflineEarnings instead.
const foregroundCapSeconds = 10.0

// HandleTick runs the engine side of one scheduler tick. TickAutosave has no
// engine work and is accepted as a no-op.
func (e *Engine) HandleTick(kind TickKind) error {
	switch kind {
	case TickIncome:
		e.AccrueIncome()
	case TickStocks:
		e.TickStocks()
	case TickWeather:
		e.ChangeWeather()
	case TickCombo:
		e.DecayCombo()
	case TickEvents:
		e.TriggerRandomEvent()
	case TickAutosave:
	default:
		return fmt.Errorf("unknown tick %q", kind)
	}
	return nil
}

// AccrueIncome credits passive income for the time since LastLogin and
// expires a finished event. It returns the amount credited.
func (e *Engine) AccrueIncome() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.nowMillis()
	elapsed := float64(now-e.state.LastLogin) / 1000
	e.state.LastLogin = now
	e.expireEvent()
	if elapsed <= 0 {
		return 0
	}
	earned := e.incomeFor(math.Min(elapsed, foregroundCapSeconds))
	if earned > 0 {
		e.addMoney(earned)
	}
	return earned
}
