// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/ecomap/internal/app/resources"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the store is
// connected and its schema is in place, but before the HTTP handler is
// built. It loads the shared templates and starts the catalog load in the
// background; the directory serves its loading state until it finishes.
// Periodic reloads begin after the first load completes.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	done := deps.Catalog.Start(ctx)
	go func() {
		<-done
		snap := deps.Catalog.Snapshot()
		logger.Info("directory catalog loaded",
			zap.Int("records", len(snap.Records)),
			zap.Int("categories", len(snap.Categories)),
			zap.Bool("degraded", snap.Degraded))
		if deps.Refresher != nil {
			deps.Refresher.Start()
		}
	}()
	return nil
}
