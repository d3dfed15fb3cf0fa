// Package metrics exposes Prometheus metrics for the HTTP surface, store
// mutations and the storage circuit breaker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
)

const namespace = "memoir"

// Collector holds every metric of the process on its own registry.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	mutations    *prometheus.CounterVec
	memories     prometheus.Gauge
	breaker      *prometheus.GaugeVec
}

// NewCollector creates and registers all metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_mutations_total",
				Help:      "Store mutations by operation and result.",
			},
			[]string{"op", "result"},
		),
		memories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memories",
			Help:      "Number of memories held by the store.",
		}),
		breaker: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "storage_breaker_state",
				Help:      "Storage circuit breaker state: 0 closed, 1 half-open, 2 open.",
			},
			[]string{"name"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests,
		c.httpDuration,
		c.mutations,
		c.memories,
		c.breaker,
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveMutation counts a store mutation.
func (c *Collector) ObserveMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.mutations.WithLabelValues(op, result).Inc()
}

// SetMemoryCount sets the collection size gauge.
func (c *Collector) SetMemoryCount(n int) {
	c.memories.Set(float64(n))
}

// BreakerStateChanged matches resilient.StateHook.
func (c *Collector) BreakerStateChanged(name string, _, to gobreaker.State) {
	c.breaker.WithLabelValues(name).Set(float64(to))
}
