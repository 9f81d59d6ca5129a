package game

import "fmt"

// TriggerRandomEvent starts either a weighted random event or a decision,
// 50/50. It does nothing while an event or a decision is active.
func (e *Engine) TriggerRandomEvent() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.ActiveEvent != nil || e.state.ActiveDecision != nil {
		return
	}
	if e.rand.Float64() < 0.5 {
		e.startEvent(pickEvent(e.rand))
		return
	}
	e.triggerDecision()
}

func pickEvent(r Roller) eventTemplate {
	total := 0
	for _, ev := range eventCatalog {
		total += ev.Weight
	}
	n := r.Intn(total)
	for _, ev := range eventCatalog {
		if n < ev.Weight {
			return ev
		}
		n -= ev.Weight
	}
	return eventCatalog[len(eventCatalog)-1]
}

func (e *Engine) startEvent(t eventTemplate) {
	e.state.ActiveEvent = &GameEvent{
		ID:         t.ID,
		Name:       t.Name,
		Multiplier: t.Multiplier,
		Duration:   t.Duration,
		StartTime:  e.nowMillis(),
	}
	kind := ToastInfo
	if t.Multiplier < 1 {
		kind = ToastWarning
	}
	e.notify(fmt.Sprintf("%s! x%g for %ds", t.Name, t.Multiplier, t.Duration), kind)
}

// ExpireEvent clears the active event once its duration has elapsed and
// reports whether it did.
func (e *Engine) ExpireEvent() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expireEvent()
}

func (e *Engine) expireEvent() bool {
	ev := e.state.ActiveEvent
	if ev == nil {
		return false
	}
	if e.nowMillis()-ev.StartTime < ev.Duration*1000 {
		return false
	}
	e.state.ActiveEvent = nil
	return true
}
