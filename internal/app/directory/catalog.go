package directory

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/ecomap/internal/app/system/metrics"
	"github.com/dalemusser/ecomap/internal/app/system/timeouts"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Phase is the catalog's load state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
)

func (p Phase) String() string {
	if p == PhaseLoaded {
		return "loaded"
	}
	return "loading"
}

// Snapshot is an immutable view of the catalog. Callers must not modify
// the slices.
type Snapshot struct {
	Phase      Phase
	Records    []models.Organization
	Categories []string
	// Degraded is set when either startup read failed; Records and
	// Categories are then whatever the client surfaced (usually empty).
	Degraded bool
	LoadedAt time.Time
}

// Catalog owns the full record set shared by all requests. It starts in
// PhaseLoading and moves to PhaseLoaded once both startup reads complete.
type Catalog struct {
	client  *Client
	log     *zap.Logger
	metrics *metrics.Collector

	mu   sync.RWMutex
	snap Snapshot

	loadMu sync.Mutex // serializes loads
}

func NewCatalog(client *Client, log *zap.Logger, m *metrics.Collector) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		client:  client,
		log:     log,
		metrics: m,
		snap: Snapshot{
			Phase:      PhaseLoading,
			Records:    []models.Organization{},
			Categories: []string{},
		},
	}
}

// Snapshot returns the current snapshot.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Load reads all records and the distinct categories concurrently and
// publishes the result once both reads have finished. A failed read
// leaves that half empty and marks the snapshot degraded.
func (c *Catalog) Load(ctx context.Context) Snapshot {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Load(), c.log, "catalog load")
	defer cancel()

	var (
		g       errgroup.Group
		records []models.Organization
		cats    []string
	)
	g.Go(func() (err error) {
		records, err = c.client.fetchAll(ctx)
		return err
	})
	g.Go(func() (err error) {
		cats, err = c.client.fetchCategories(ctx)
		return err
	})
	err := g.Wait()

	snap := Snapshot{
		Phase:      PhaseLoaded,
		Records:    records,
		Categories: cats,
		Degraded:   err != nil,
		LoadedAt:   time.Now().UTC(),
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	c.metrics.SetCatalog(len(records), snap.Degraded)
	if snap.Degraded {
		c.log.Warn("catalog loaded in degraded mode", zap.Int("records", len(records)), zap.Error(err))
	} else {
		c.log.Info("catalog loaded", zap.Int("records", len(records)), zap.Int("categories", len(cats)))
	}
	return snap
}

// Start loads the catalog in the background. The returned channel is
// closed when the first load finishes.
func (c *Catalog) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Load(ctx)
	}()
	return done
}

// Refresh reloads the catalog after a write. The current snapshot stays
// visible until the new one is ready.
func (c *Catalog) Refresh(ctx context.Context) Snapshot {
	return c.Load(ctx)
}
