// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TicksTotal counts scheduler ticks by kind and outcome.
var TicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tycoon",
	Subsystem: "loop",
	Name:      "ticks_total",
	Help:      "Scheduler ticks dispatched, by kind and result.",
}, []string{"kind", "result"})

// TickDuration tracks how long a tick takes across every loaded player.
var TickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "tycoon",
	Subsystem: "loop",
	Name:      "tick_duration_seconds",
	Help:      "Time spent handling one scheduler tick.",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
}, []string{"kind"})

var PlayersLoaded = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "tycoon",
	Subsystem: "hub",
	Name:      "players_loaded",
	Help:      "Player engines currently held in memory.",
})

var SavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tycoon",
	Subsystem: "hub",
	Name:      "saves_total",
	Help:      "Save attempts by destination and result.",
}, []string{"target", "result"})

var SyncQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "tycoon",
	Subsystem: "hub",
	Name:      "sync_queue_depth",
	Help:      "Cloud profile pushes waiting for retry.",
})

var PrestigesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tycoon",
	Subsystem: "game",
	Name:      "prestiges_total",
	Help:      "Successful prestige resets.",
})

var SummonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tycoon",
	Subsystem: "game",
	Name:      "summons_total",
	Help:      "Manager summons by rarity.",
}, []string{"rarity"})

var OfflinePayout = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "tycoon",
	Subsystem: "game",
	Name:      "offline_payout",
	Help:      "Money paid on return from offline.",
	Buckets:   prometheus.ExponentialBuckets(10, 10, 12),
})

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tycoon",
	Subsystem: "api",
	Name:      "requests_total",
	Help:      "HTTP requests by route pattern and status class.",
}, []string{"route", "status"})
