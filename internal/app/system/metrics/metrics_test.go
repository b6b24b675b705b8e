package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStoreOp_LabelsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c.ObserveStoreOp("fetch_all", nil, 5*time.Millisecond)
	c.ObserveStoreOp("fetch_all", errors.New("down"), time.Millisecond)
	c.ObserveStoreOp("fetch_all", errors.New("down"), time.Millisecond)

	if got := testutil.ToFloat64(c.StoreOperations.WithLabelValues("fetch_all", "ok")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.StoreOperations.WithLabelValues("fetch_all", "error")); got != 2 {
		t.Errorf("error count = %v, want 2", got)
	}
}

func TestSetCatalog(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.SetCatalog(5, false)
	if got := testutil.ToFloat64(c.CatalogRecords); got != 5 {
		t.Errorf("records = %v, want 5", got)
	}
	if got := testutil.ToFloat64(c.CatalogDegraded); got != 0 {
		t.Errorf("degraded = %v, want 0", got)
	}
	c.SetCatalog(0, true)
	if got := testutil.ToFloat64(c.CatalogDegraded); got != 1 {
		t.Errorf("degraded = %v, want 1", got)
	}
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := New(reg)
	if err != nil {
		t.Fatalf("first New: %v", err)
	}
	b, err := New(reg)
	if err != nil {
		t.Fatalf("second New: %v", err)
	}
	a.ObserveStoreOp("search", nil, 0)
	if got := testutil.ToFloat64(b.StoreOperations.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("shared counter = %v, want 1", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveStoreOp("x", nil, 0)
	c.SetCatalog(1, true)
	c.ObserveFiltered(3)

	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d", rr.Code)
	}
}

func TestMiddleware_CountsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/api/organizations/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/organizations/"+id, nil))
	}

	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("/api/organizations/{id}", "GET", "404")); got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.SetCatalog(7, false)
	c.ObserveFiltered(3)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{"ecomap_catalog_records 7", "ecomap_filtered_results_count 1"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
