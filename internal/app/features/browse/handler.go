// internal/app/features/browse/handler.go
package browse

import (
	"github.com/dalemusser/ecomap/internal/app/directory"
	"github.com/dalemusser/ecomap/internal/app/system/metrics"
	"github.com/dalemusser/ecomap/internal/app/system/viewsession"
	"go.uber.org/zap"
)

// mapContainerID is the DOM id the Leaflet map mounts into.
const mapContainerID = "directory-map"

// Handler serves the directory page and its partials.
type Handler struct {
	Catalog     *directory.Catalog
	Views       *viewsession.Store
	Metrics     *metrics.Collector
	TileURL     string
	Attribution string
	Log         *zap.Logger
}

func NewHandler(catalog *directory.Catalog, views *viewsession.Store, m *metrics.Collector, tileURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog: catalog,
		Views:   views,
		Metrics: m,
		TileURL: tileURL,
		Log:     logger,
	}
}
