// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/ecomap/internal/app/directory"
	organizationstore "github.com/dalemusser/ecomap/internal/app/store/organizations"
	"github.com/dalemusser/ecomap/internal/app/system/indexes"
	"github.com/dalemusser/ecomap/internal/app/system/metrics"
	"github.com/dalemusser/ecomap/internal/app/system/timeouts"
	"github.com/dalemusser/ecomap/internal/app/system/validators"
	"github.com/dalemusser/ecomap/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ConnectDB opens the configured record store and builds the directory
// client and catalog over it. Nothing is read yet; Startup starts the
// catalog load.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	timeouts.Configure(appCfg.Timeouts)

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Load())
	defer cancel()

	store, err := organizationstore.Open(connectCtx, appCfg.StoreOptions(), logger)
	if err != nil {
		logger.Error("store connect failed", zap.String("backend", appCfg.StoreBackend), zap.Error(err))
		return DBDeps{}, err
	}

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		_ = store.Close(context.Background())
		return DBDeps{}, fmt.Errorf("register metrics: %w", err)
	}

	deps := DBDeps{
		Store:   store,
		Backend: appCfg.StoreBackend,
		Metrics: m,
	}
	if ms, ok := store.(*organizationstore.Store); ok {
		deps.MongoDatabase = ms.Database()
	}
	deps.Client = directory.NewClient(store, logger, m)
	deps.Catalog = directory.NewCatalog(deps.Client, logger, m)
	if appCfg.CatalogRefresh > 0 {
		deps.Refresher = workers.NewCatalogRefresh(deps.Catalog, logger, appCfg.CatalogRefresh)
	}
	return deps, nil
}

// EnsureSchema sets up the collection validator and indexes for the mongo
// backend. SQL backends create their tables and indexes when they are
// opened.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := validators.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}
