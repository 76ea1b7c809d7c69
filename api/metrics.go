package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "investlab",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "investlab",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
		},
		[]string{"method", "route"},
	)

	sessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "investlab",
			Subsystem: "game",
			Name:      "sessions_started_total",
			Help:      "Game sessions started",
		},
		[]string{"game"},
	)

	decisionsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "investlab",
			Subsystem: "game",
			Name:      "decisions_resolved_total",
			Help:      "Scenario decisions resolved, by whether the option landed fully",
		},
		[]string{"game", "effect"},
	)
)

func observeRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func observeDecision(game string, fullEffect bool) {
	effect := "partial"
	if fullEffect {
		effect = "full"
	}
	decisionsResolved.WithLabelValues(game, effect).Inc()
}
