package game

import (
	"fmt"
	"math"
)

// DecisionOption is one branch of a decision. Risk is the probability the
// branch fails and the generic penalty applies instead of Apply.
type DecisionOption struct {
	Label string
	Cost  float64
	Risk  float64
	apply func(e *Engine) string
}

type DecisionTemplate struct {
	ID          string
	Title       string
	Description string
	Options     []DecisionOption
}

// DecisionView is the serializable face of a decision for presentation.
type DecisionView struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Options     []DecisionOptionView `json:"options"`
}

type DecisionOptionView struct {
	Label string  `json:"label"`
	Cost  float64 `json:"cost,omitempty"`
	Risk  float64 `json:"risk,omitempty"`
}

type DecisionOutcome struct {
	DecisionID string `json:"decisionId"`
	Option     int    `json:"option"`
	Failed     bool   `json:"failed"`
	Message    string `json:"message"`
}

var decisionRegistry = []DecisionTemplate{
	{
		ID:          "dec_supplier",
		Title:       "Shady Supplier",
		Description: "A supplier offers cheap crates of lemons. No questions asked.",
		Options: []DecisionOption{
			{Label: "Buy the crates", Cost: 1_000, Risk: 0.3, apply: func(e *Engine) string {
				gain := e.incomeFor(120)
				e.addMoney(gain)
				return fmt.Sprintf("The lemons were great! +$%s", FormatCurrency(gain))
			}},
			{Label: "Walk away", apply: func(*Engine) string { return "You played it safe." }},
		},
	},
	{
		ID:          "dec_investor",
		Title:       "Eccentric Investor",
		Description: "A billionaire wants a stake in your empire.",
		Options: []DecisionOption{
			{Label: "Take the gems", apply: func(e *Engine) string {
				e.state.Gems += 25
				return "The investor paid in gems. +25 gems"
			}},
			{Label: "Pitch the big vision", Risk: 0.5, apply: func(e *Engine) string {
				e.state.Gems += 75
				return "They loved it! +75 gems"
			}},
		},
	},
	{
		ID:          "dec_viral",
		Title:       "Viral Moment",
		Description: "A celebrity posted about your lemonade.",
		Options: []DecisionOption{
			{Label: "Run an ad campaign", Cost: 5_000, apply: func(e *Engine) string {
				e.startEvent(eventTemplate{ID: "viral_marketing", Name: "Viral Marketing", Multiplier: 3, Duration: 30})
				return "The campaign went viral!"
			}},
			{Label: "Sell merch", Risk: 0.4, apply: func(e *Engine) string {
				gain := e.incomeFor(300)
				e.addMoney(gain)
				return fmt.Sprintf("Merch sold out! +$%s", FormatCurrency(gain))
			}},
			{Label: "Ignore it", apply: func(*Engine) string { return "The moment passed." }},
		},
	},
	{
		ID:          "dec_audit",
		Title:       "Tax Audit",
		Description: "The auditors are at the door.",
		Options: []DecisionOption{
			{Label: "Pay the accountants", Cost: 10_000, apply: func(*Engine) string { return "Books are clean." }},
			{Label: "Wing it", Risk: 0.6, apply: func(e *Engine) string {
				e.state.Gems += 10
				return "They found nothing. +10 gems"
			}},
		},
	},
}

func decisionByID(id string) (DecisionTemplate, bool) {
	for _, d := range decisionRegistry {
		if d.ID == id {
			return d, true
		}
	}
	return DecisionTemplate{}, false
}

func (d DecisionTemplate) View() DecisionView {
	v := DecisionView{ID: d.ID, Title: d.Title, Description: d.Description}
	for _, o := range d.Options {
		v.Options = append(v.Options, DecisionOptionView{Label: o.Label, Cost: o.Cost, Risk: o.Risk})
	}
	return v
}

// TriggerDecision presents a uniformly chosen decision unless an event or
// another decision is active.
func (e *Engine) TriggerDecision() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.ActiveEvent != nil || e.state.ActiveDecision != nil {
		return
	}
	e.triggerDecision()
}

func (e *Engine) triggerDecision() {
	d := decisionRegistry[e.rand.Intn(len(decisionRegistry))]
	e.state.ActiveDecision = &ActiveDecision{ID: d.ID}
	e.notify(d.Title, ToastInfo)
}

// ActiveDecision returns the pending decision, if any.
func (e *Engine) ActiveDecision() (DecisionView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.ActiveDecision == nil {
		return DecisionView{}, false
	}
	d, ok := decisionByID(e.state.ActiveDecision.ID)
	if !ok {
		return DecisionView{}, false
	}
	return d.View(), true
}

// ResolveDecision applies option index of the active decision. Risky options
// roll against their risk reduced by luck; a failed roll costs PenaltyRate of
// current money. The decision is cleared after any resolution. An unaffordable
// option leaves the decision pending.
func (e *Engine) ResolveDecision(index int) (DecisionOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	active := e.state.ActiveDecision
	if active == nil {
		return DecisionOutcome{}, ErrNoDecision
	}
	d, ok := decisionByID(active.ID)
	if !ok {
		e.state.ActiveDecision = nil
		return DecisionOutcome{}, ErrUnknownID
	}
	if index < 0 || index >= len(d.Options) {
		return DecisionOutcome{}, ErrInvalidOption
	}
	opt := d.Options[index]
	if !e.spend(opt.Cost) {
		return DecisionOutcome{}, ErrInsufficientFunds
	}

	out := DecisionOutcome{DecisionID: d.ID, Option: index}
	if opt.Risk > 0 && e.rand.Float64() < math.Max(0, opt.Risk-luck(e.state)) {
		loss := e.state.Money * PenaltyRate
		e.addMoney(-loss)
		out.Failed = true
		out.Message = fmt.Sprintf("It backfired! Lost $%s", FormatCurrency(loss))
	} else {
		out.Message = opt.apply(e)
	}
	e.state.ActiveDecision = nil
	kind := ToastSuccess
	if out.Failed {
		kind = ToastWarning
	}
	e.notify(out.Message, kind)
	return out, nil
}

// incomeFor is seconds worth of current passive income.
func (e *Engine) incomeFor(seconds float64) float64 {
	return baseIncome(e.state) * globalMultiplier(e.state) * seconds
}
