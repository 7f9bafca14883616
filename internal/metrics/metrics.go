// Package metrics exposes Prometheus metrics for the RPC layer and the
// expense domain.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	// RPC metrics
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec

	// Business metrics
	ExpensesCreated     *prometheus.CounterVec
	ExpenseAmount       prometheus.Histogram
	SettlementsRecorded prometheus.Counter
	GroupsCreated       prometheus.Counter
}

// NewCollector creates a collector with its own registry, so multiple
// collectors (e.g. in tests) never clash on registration.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		RPCRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "Total number of RPC requests by procedure and result code",
			},
			[]string{"procedure", "code"},
		),
		RPCDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_request_duration_seconds",
				Help:      "RPC request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"procedure"},
		),
		ExpensesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expenses_created_total",
				Help:      "Total number of expenses recorded by split type",
			},
			[]string{"split_type"},
		),
		ExpenseAmount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "expense_amount",
				Help:      "Distribution of recorded expense amounts",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000},
			},
		),
		SettlementsRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settlements_recorded_total",
				Help:      "Total number of settlements recorded",
			},
		),
		GroupsCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "groups_created_total",
				Help:      "Total number of groups created",
			},
		),
	}

	registry.MustRegister(
		c.RPCRequests,
		c.RPCDuration,
		c.ExpensesCreated,
		c.ExpenseAmount,
		c.SettlementsRecorded,
		c.GroupsCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveRPC records one finished RPC.
func (c *Collector) ObserveRPC(procedure, code string, duration time.Duration) {
	if c == nil {
		return
	}
	c.RPCRequests.WithLabelValues(procedure, code).Inc()
	c.RPCDuration.WithLabelValues(procedure).Observe(duration.Seconds())
}

// ExpenseCreated records a new expense.
func (c *Collector) ExpenseCreated(splitType string, amount float64) {
	if c == nil {
		return
	}
	c.ExpensesCreated.WithLabelValues(splitType).Inc()
	c.ExpenseAmount.Observe(amount)
}

// SettlementRecorded records a new settlement.
func (c *Collector) SettlementRecorded() {
	if c == nil {
		return
	}
	c.SettlementsRecorded.Inc()
}

// GroupCreated records a new group.
func (c *Collector) GroupCreated() {
	if c == nil {
		return
	}
	c.GroupsCreated.Inc()
}
