// Package metrics bundles the Prometheus collectors for the directory and
// exposes them at /metrics.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the directory's metrics. A nil *Collector is valid and
// records nothing, so components can be built without metrics in tests.
type Collector struct {
	gatherer prometheus.Gatherer

	StoreOperations *prometheus.CounterVec
	StoreDurations  *prometheus.HistogramVec
	HTTPRequests    *prometheus.CounterVec

	CatalogRecords  prometheus.Gauge
	CatalogDegraded prometheus.Gauge
	FilteredResults prometheus.Histogram
}

// New registers the collectors against reg, defaulting to the global
// registry when nil. Registering twice against the same registry reuses
// the existing collectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ops, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecomap_store_operations_total",
		Help: "Record store operations, labeled by operation and outcome (ok or error).",
	}, []string{"operation", "outcome"}), "ecomap_store_operations_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecomap_store_operation_duration_seconds",
		Help:    "Record store operation latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"operation"}), "ecomap_store_operation_duration_seconds")
	if err != nil {
		return nil, err
	}
	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ecomap_http_requests_total",
		Help: "HTTP requests, labeled by route pattern, method, and status code.",
	}, []string{"route", "method", "code"}), "ecomap_http_requests_total")
	if err != nil {
		return nil, err
	}
	records, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ecomap_catalog_records",
		Help: "Organizations held by the loaded catalog.",
	}), "ecomap_catalog_records")
	if err != nil {
		return nil, err
	}
	degraded, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ecomap_catalog_degraded",
		Help: "1 when the last catalog load could not read the record store.",
	}), "ecomap_catalog_degraded")
	if err != nil {
		return nil, err
	}
	filtered, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecomap_filtered_results",
		Help:    "Size of the filtered result set per directory request.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}), "ecomap_filtered_results")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		StoreOperations: ops,
		StoreDurations:  durations,
		HTTPRequests:    requests,
		CatalogRecords:  records,
		CatalogDegraded: degraded,
		FilteredResults: filtered,
	}, nil
}

// ObserveStoreOp records one store call.
func (c *Collector) ObserveStoreOp(operation string, err error, took time.Duration) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.StoreOperations.WithLabelValues(operation, outcome).Inc()
	c.StoreDurations.WithLabelValues(operation).Observe(took.Seconds())
}

// SetCatalog records the size and health of the current catalog snapshot.
func (c *Collector) SetCatalog(records int, degraded bool) {
	if c == nil {
		return
	}
	c.CatalogRecords.Set(float64(records))
	if degraded {
		c.CatalogDegraded.Set(1)
	} else {
		c.CatalogDegraded.Set(0)
	}
}

func (c *Collector) ObserveFiltered(n int) {
	if c == nil {
		return
	}
	c.FilteredResults.Observe(float64(n))
}

// Middleware counts requests by chi route pattern. Unmatched paths are
// labeled "unmatched" to keep label cardinality bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
