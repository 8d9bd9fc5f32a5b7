// Package metrics collects and exposes Prometheus metrics for the
// authorization flow and outbound provider calls.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the metrics interface used by the server and flow layers.
type Recorder interface {
	RecordLoginStarted()
	RecordCallback(outcome string)
	RecordProviderStatus(endpoint string, statusCode int)
}

// Callback outcome labels.
const (
	OutcomeLoggedIn       = "logged_in"
	OutcomeStateMismatch  = "state_mismatch"
	OutcomeProviderDenied = "provider_denied"
	OutcomeError          = "error"
)

// Collector is the Prometheus-backed Recorder implementation.
type Collector struct {
	loginsStarted  prometheus.Counter
	callbacks      *prometheus.CounterVec
	providerStatus *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oauth_client_logins_started_total",
			Help: "Number of authorization redirects issued.",
		}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_client_callbacks_total",
			Help: "Number of authorization callbacks handled, by outcome.",
		}, []string{"outcome"}),
		providerStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_client_provider_responses_total",
			Help: "Provider API responses by endpoint and HTTP status.",
		}, []string{"endpoint", "status_code"}),
	}

	reg.MustRegister(
		c.loginsStarted,
		c.callbacks,
		c.providerStatus,
	)

	return c
}

// RecordLoginStarted counts an authorization redirect.
func (c *Collector) RecordLoginStarted() {
	c.loginsStarted.Inc()
}

// RecordCallback counts a handled callback by outcome.
func (c *Collector) RecordCallback(outcome string) {
	c.callbacks.WithLabelValues(outcome).Inc()
}

// RecordProviderStatus counts a provider API response.
func (c *Collector) RecordProviderStatus(endpoint string, statusCode int) {
	c.providerStatus.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

// Nop is a Recorder that discards everything. Used in tests.
type Nop struct{}

func (Nop) RecordLoginStarted()              {}
func (Nop) RecordCallback(string)            {}
func (Nop) RecordProviderStatus(string, int) {}

var _ Recorder = (*Collector)(nil)
var _ Recorder = Nop{}
