package game

import (
	"fmt"
	"math"
)

// CalculateOfflineEarnings pays passive income for the time since LastLogin,
// capped at 24 hours. Gaps under five seconds pay nothing. LastLogin is
// always moved to now so a second call pays zero.
func (e *Engine) CalculateOfflineEarnings() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.nowMillis()
	elapsed := float64(now-e.state.LastLogin) / 1000
	e.state.LastLogin = now
	if elapsed < OfflineMinSeconds {
		return 0
	}
	elapsed = math.Min(elapsed, OfflineMaxSeconds)
	earned := math.Floor(baseIncome(e.state) * globalMultiplier(e.state) * elapsed)
	if earned <= 0 {
		return 0
	}
	e.state.Money += earned
	e.state.LifetimeEarnings += earned
	e.log.Info("offline earnings", "seconds", elapsed, "earned", earned)
	e.notify(fmt.Sprintf("Welcome back! You earned $%s while away", FormatCurrency(earned)), ToastSuccess)
	return earned
}

// TimeWarpValue is what BuyTimeWarp would pay for the given hours.
func (e *Engine) TimeWarpValue(hours float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeWarpValue(hours)
}

func (e *Engine) timeWarpValue(hours float64) float64 {
	return e.incomeFor(3600*hours) * (1 + timeWarpBonus(e.state))
}

// BuyTimeWarp spends gems for an instant payout of hours of passive income.
func (e *Engine) BuyTimeWarp(hours float64, gemCost int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if hours <= 0 || gemCost < 0 {
		return ErrInvalidAmount
	}
	if e.state.Gems < gemCost {
		return ErrInsufficientGems
	}
	earned := e.timeWarpValue(hours)
	e.state.Gems -= gemCost
	e.addMoney(earned)
	e.notify(fmt.Sprintf("Time warp! +$%s", FormatCurrency(earned)), ToastSuccess)
	return nil
}
