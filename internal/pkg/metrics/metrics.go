// Package metrics collects Prometheus metrics for the storefront.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the gateway client and the checkout flow report to.
type Recorder interface {
	RecordBackendRequest(method string, status int, duration time.Duration)
	RecordSessionExpired()
	RecordCheckoutOutcome(outcome string)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	backendRequests *prometheus.CounterVec
	backendLatency  prometheus.Histogram
	sessionExpired  prometheus.Counter
	checkoutOutcome *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_backend_requests_total",
			Help: "Backend API calls by method and response status (0 = transport failure).",
		}, []string{"method", "status"}),
		backendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_backend_request_duration_seconds",
			Help:    "Backend API call latency.",
			Buckets: prometheus.DefBuckets,
		}),
		sessionExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_session_expired_total",
			Help: "Sessions terminated because the backend answered 401.",
		}),
		checkoutOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_checkout_outcomes_total",
			Help: "Checkout attempts by terminal outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.backendRequests,
		c.backendLatency,
		c.sessionExpired,
		c.checkoutOutcome,
	)

	return c
}

// RecordBackendRequest records one backend call.
func (c *Collector) RecordBackendRequest(method string, status int, duration time.Duration) {
	c.backendRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.backendLatency.Observe(duration.Seconds())
}

// RecordSessionExpired records a forced logout.
func (c *Collector) RecordSessionExpired() {
	c.sessionExpired.Inc()
}

// RecordCheckoutOutcome records how a checkout attempt ended.
func (c *Collector) RecordCheckoutOutcome(outcome string) {
	c.checkoutOutcome.WithLabelValues(outcome).Inc()
}

// Handler exposes the metrics of gatherer over HTTP.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordBackendRequest(string, int, time.Duration) {}
func (Nop) RecordSessionExpired()                           {}
func (Nop) RecordCheckoutOutcome(string)                    {}
