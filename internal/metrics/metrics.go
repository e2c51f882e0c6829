// Package metrics exposes Prometheus collectors for the interaction
// pipeline. Recording is independent of the audit trail: both always run,
// neither can fail the action.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var actionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "pulsefeed_action_duration_seconds",
	Help: "Duration of interaction actions.",
}, []string{"action"})

var actionOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pulsefeed_action_outcome_total",
	Help: "Interaction action outcomes by error code (or 'success').",
}, []string{"action", "outcome"})

var authRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pulsefeed_auth_rejected_total",
	Help: "Authentication/authorization rejections by reason.",
}, []string{"reason"})

var rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pulsefeed_rate_limited_total",
	Help: "Rate-limited actions by limiter backend.",
}, []string{"action", "backend"})

var notifyDropped = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pulsefeed_notify_sideeffect_failures_total",
	Help: "Best-effort notification side effects that failed.",
}, []string{"stage"})

// ObserveAction records one completed action with its outcome label.
func ObserveAction(action, outcome string, elapsed time.Duration) {
	actionDuration.WithLabelValues(action).Observe(elapsed.Seconds())
	actionOutcome.WithLabelValues(action, outcome).Inc()
}

// AuthRejected counts a rejected principal resolution or policy check.
func AuthRejected(reason string) {
	authRejected.WithLabelValues(reason).Inc()
}

// RateLimited counts a denied action, labeled by the backend that denied it.
func RateLimited(action, backend string) {
	rateLimited.WithLabelValues(action, backend).Inc()
}

// NotifySideEffectFailed counts a failed broadcast or email enqueue.
func NotifySideEffectFailed(stage string) {
	notifyDropped.WithLabelValues(stage).Inc()
}
