// internal/app/system/workers/catalogrefresh.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/ecomap/internal/app/directory"
	"go.uber.org/zap"
)

// Refresher is the part of the catalog the worker drives.
type Refresher interface {
	Refresh(ctx context.Context) directory.Snapshot
}

// CatalogRefresh is a background worker that reloads the directory
// catalog on an interval so records written elsewhere (ecomapctl seed,
// another instance) show up without a restart.
type CatalogRefresh struct {
	catalog  Refresher
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewCatalogRefresh creates a refresh worker. interval must be positive.
func NewCatalogRefresh(catalog Refresher, logger *zap.Logger, interval time.Duration) *CatalogRefresh {
	return &CatalogRefresh{
		catalog:  catalog,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop.
func (w *CatalogRefresh) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("catalog refresh worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. It is safe
// to call more than once.
func (w *CatalogRefresh) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("catalog refresh worker stopped")
	})
}

func (w *CatalogRefresh) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.refresh()
		}
	}
}

func (w *CatalogRefresh) refresh() {
	snap := w.catalog.Refresh(context.Background())
	if snap.Degraded {
		w.log.Warn("catalog refresh degraded", zap.Int("records", len(snap.Records)))
		return
	}
	w.log.Debug("catalog refreshed", zap.Int("records", len(snap.Records)))
}
