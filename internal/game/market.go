package game

import (
	"fmt"
	"math"
)

func rollTrend(roll float64) Trend {
	switch {
	case roll < 0.4:
		return TrendBull
	case roll < 0.7:
		return TrendBear
	default:
		return TrendStable
	}
}

// TickStocks advances every stock one step of its trend-biased random walk.
func (e *Engine) TickStocks() {
	e.mu.Lock()
	defer e.mu.Unlock()
	bias := 0.0
	if ev := e.state.ActiveEvent; ev != nil {
		switch ev.ID {
		case eventMarketBoom:
			bias = MarketBias
		case eventMarketCrash:
			bias = -MarketBias
		}
	}
	for i := range e.state.Stocks {
		e.stepStock(&e.state.Stocks[i], bias)
	}
}

func (e *Engine) stepStock(st *Stock, bias float64) {
	st.TrendDuration--
	if st.TrendDuration <= 0 {
		st.Trend = rollTrend(e.rand.Float64())
		st.TrendDuration = 5 + e.rand.Intn(11)
	}
	delta := (e.rand.Float64()*2 - 1) * st.Volatility
	switch st.Trend {
	case TrendBull:
		delta += st.Volatility / 2
	case TrendBear:
		delta -= st.Volatility / 2
	case TrendStable:
	}
	delta += bias
	st.PreviousPrice = st.Price
	st.Price = clampPrice(st.Price * (1 + delta))
	st.History = append(st.History, st.Price)
	if len(st.History) > StockHistory {
		st.History = append([]float64(nil), st.History[len(st.History)-StockHistory:]...)
	}
}

func clampPrice(p float64) float64 {
	return math.Min(MaxStockPrice, math.Max(MinStockPrice, p))
}

// BuyStock buys whole shares at the current price.
func (e *Engine) BuyStock(id string, shares int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if shares <= 0 {
		return ErrInvalidAmount
	}
	st := e.stock(id)
	if st == nil {
		return ErrUnknownID
	}
	if !e.spend(st.Price * float64(shares)) {
		return ErrInsufficientFunds
	}
	e.state.Portfolio[id] += shares
	e.notify(fmt.Sprintf("Bought %d %s", shares, st.Symbol), ToastSuccess)
	return nil
}

// SellStock sells whole shares at the current price. Proceeds are not
// counted as earnings.
func (e *Engine) SellStock(id string, shares int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if shares <= 0 {
		return ErrInvalidAmount
	}
	st := e.stock(id)
	if st == nil {
		return ErrUnknownID
	}
	if e.state.Portfolio[id] < shares {
		return ErrInsufficientShares
	}
	e.state.Portfolio[id] -= shares
	if e.state.Portfolio[id] == 0 {
		delete(e.state.Portfolio, id)
	}
	e.state.Money += st.Price * float64(shares)
	e.notify(fmt.Sprintf("Sold %d %s", shares, st.Symbol), ToastSuccess)
	return nil
}

// PortfolioValue is the market value of every held share.
func (e *Engine) PortfolioValue() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := 0.0
	for _, st := range e.state.Stocks {
		total += st.Price * float64(e.state.Portfolio[st.ID])
	}
	return total
}
