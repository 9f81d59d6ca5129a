// Package loop drives game ticks from a single goroutine.
package loop

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/metrics"
)

// Driver receives every tick. HandleTick is never called concurrently.
type Driver interface {
	HandleTick(ctx context.Context, kind game.TickKind) error
}

type Scheduler struct {
	driver  Driver
	cadence config.Cadence
	log     *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

func New(driver Driver, cadence config.Cadence, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		driver:  driver,
		cadence: cadence,
		log:     logger,
		stopCh:  make(chan struct{}),
	}
}

func (s *Scheduler) every(kind game.TickKind) time.Duration {
	switch kind {
	case game.TickIncome:
		return s.cadence.Income
	case game.TickStocks:
		return s.cadence.Stocks
	case game.TickWeather:
		return s.cadence.Weather
	case game.TickCombo:
		return s.cadence.Combo
	case game.TickEvents:
		return s.cadence.Events
	case game.TickAutosave:
		return s.cadence.Autosave
	}
	return 0
}

// Run dispatches ticks until ctx is done or Stop is called. Every ticker is
// stopped before Run returns.
func (s *Scheduler) Run(ctx context.Context) error {
	chans := make(map[game.TickKind]<-chan time.Time, len(game.TickKinds))
	for _, kind := range game.TickKinds {
		d := s.every(kind)
		if d <= 0 {
			continue
		}
		t := time.NewTicker(d)
		defer t.Stop()
		chans[kind] = t.C
	}
	s.log.Info("scheduler started", "ticks", len(chans))

	// A nil channel never fires, which disables that case.
	income, stocks, weather := chans[game.TickIncome], chans[game.TickStocks], chans[game.TickWeather]
	combo, events, autosave := chans[game.TickCombo], chans[game.TickEvents], chans[game.TickAutosave]
	for {
		var kind game.TickKind
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped by context")
			return ctx.Err()
		case <-s.stopCh:
			s.log.Info("scheduler stopped")
			return nil
		case <-income:
			kind = game.TickIncome
		case <-stocks:
			kind = game.TickStocks
		case <-weather:
			kind = game.TickWeather
		case <-combo:
			kind = game.TickCombo
		case <-events:
			kind = game.TickEvents
		case <-autosave:
			kind = game.TickAutosave
		}
		s.dispatch(ctx, kind)
	}
}

func (s *Scheduler) dispatch(ctx context.Context, kind game.TickKind) {
	start := time.Now()
	err := s.driver.HandleTick(ctx, kind)
	metrics.TickDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TicksTotal.WithLabelValues(string(kind), "error").Inc()
		s.log.Error("tick failed", "kind", kind, "err", err)
		return
	}
	metrics.TicksTotal.WithLabelValues(string(kind), "ok").Inc()
}

// Stop makes Run return. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}
