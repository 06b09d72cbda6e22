package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shoppingcart"

// Outcome labels used by the cart view metrics.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// CartMetrics records pricing and upstream activity for the cart service.
type CartMetrics struct {
	viewDuration     *prometheus.HistogramVec
	views            *prometheus.CounterVec
	shippingApplied  prometheus.Counter
	upstreamFailures *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	viewDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "view_duration_seconds",
		Help:      "Duration of priced cart views in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
	views := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "views_total",
		Help:      "Priced cart views by outcome (ok or the error code).",
	}, []string{"outcome"})
	shippingApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipping_adjustments_total",
		Help:      "Shipping charges appended to carts.",
	})
	upstreamFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_failures_total",
		Help:      "Failed calls to peer services.",
	}, []string{"dependency"})
	reg.MustRegister(viewDuration, views, shippingApplied, upstreamFailures)
	return &CartMetrics{
		viewDuration:     viewDuration,
		views:            views,
		shippingApplied:  shippingApplied,
		upstreamFailures: upstreamFailures,
	}
}

// ObserveView records one priced cart view.
func (c *CartMetrics) ObserveView(outcome string, duration time.Duration) {
	if c == nil || c.views == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	c.views.WithLabelValues(outcome).Inc()
	c.viewDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// IncShippingApplied counts a shipping adjustment written to a cart.
func (c *CartMetrics) IncShippingApplied() {
	if c == nil || c.shippingApplied == nil {
		return
	}
	c.shippingApplied.Inc()
}

// IncUpstreamFailure counts a failed call to the named dependency.
func (c *CartMetrics) IncUpstreamFailure(dependency string) {
	if c == nil || c.upstreamFailures == nil {
		return
	}
	c.upstreamFailures.WithLabelValues(normalizeLabel(dependency)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
