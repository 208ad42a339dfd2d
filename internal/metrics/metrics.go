// Package metrics exposes dashboard counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const metricsNamespace = "paydash"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector is a prometheus.Collector for controller actions and the
// current shape of the ledger.
type Collector struct {
	actions       *prometheus.CounterVec
	payments      *prometheus.GaugeVec
	totalAmount   prometheus.Gauge
	publishErrors prometheus.Counter
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "actions_total",
				Help:      "Dashboard actions by kind and outcome.",
			}, []string{"action", "outcome"},
		),
		payments: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "payments",
				Help:      "Stored payments by status.",
			}, []string{"status"},
		),
		totalAmount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "payments_amount_total",
				Help:      "Sum of all stored payment amounts.",
			},
		),
		publishErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "change_publish_errors_total",
				Help:      "Change messages that could not be published.",
			},
		),
	}
}

// ObserveAction counts one controller action.
func (c *Collector) ObserveAction(action string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.actions.WithLabelValues(action, outcome).Inc()
}

// SetLedger records per-status counts and the total amount.
func (c *Collector) SetLedger(counts map[string]int, total decimal.Decimal) {
	for status, n := range counts {
		c.payments.WithLabelValues(status).Set(float64(n))
	}
	c.totalAmount.Set(total.InexactFloat64())
}

// PublishFailed counts a change message that was not delivered.
func (c *Collector) PublishFailed() {
	c.publishErrors.Inc()
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.actions.Describe(ch)
	c.payments.Describe(ch)
	c.totalAmount.Describe(ch)
	c.publishErrors.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.actions.Collect(ch)
	c.payments.Collect(ch)
	c.totalAmount.Collect(ch)
	c.publishErrors.Collect(ch)
}
