package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CheckoutMetrics tracks the order orchestrator: state transitions, final outcomes and the
// best-effort confirmation email.
type CheckoutMetrics struct {
	transitions   *prometheus.CounterVec
	outcomes      *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_state_transitions_total",
		Help: "Checkout state machine transitions by entered state.",
	}, []string{"state"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Finished checkouts by outcome (done or the failing state).",
	}, []string{"outcome"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_notifications_total",
		Help: "Order confirmation email attempts by result.",
	}, []string{"result"})
	reg.MustRegister(transitions, outcomes, notifications)
	return &CheckoutMetrics{
		transitions:   transitions,
		outcomes:      outcomes,
		notifications: notifications,
	}
}

// IncTransition counts entry into state.
func (c *CheckoutMetrics) IncTransition(state string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(state)).Inc()
}

// IncOutcome counts a finished checkout.
func (c *CheckoutMetrics) IncOutcome(outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncNotification counts a confirmation email attempt.
func (c *CheckoutMetrics) IncNotification(sent bool) {
	if c == nil || c.notifications == nil {
		return
	}
	result := "failed"
	if sent {
		result = "sent"
	}
	c.notifications.WithLabelValues(result).Inc()
}

// GatewayMetrics records commerce gateway latency per operation and outcome.
type GatewayMetrics struct {
	duration *prometheus.HistogramVec
}

// NewGatewayMetrics registers the gateway histogram on the provided registerer.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_call_duration_seconds",
		Help:    "Duration of commerce gateway operations including retries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration)
	return &GatewayMetrics{duration: duration}
}

// ObserveGatewayCall records one logical gateway operation.
func (g *GatewayMetrics) ObserveGatewayCall(op, outcome string, elapsed time.Duration) {
	if g == nil || g.duration == nil {
		return
	}
	g.duration.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Observe(elapsed.Seconds())
}

// Handler exposes the gatherer in the prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
