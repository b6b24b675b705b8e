// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/ecomap/internal/app/directory"
	organizationstore "github.com/dalemusser/ecomap/internal/app/store/organizations"
	"github.com/dalemusser/ecomap/internal/app/system/metrics"
	"github.com/dalemusser/ecomap/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the record store and the services built directly on it.
type DBDeps struct {
	Store   organizationstore.Backend
	Backend string

	// MongoDatabase is set only for the mongo backend.
	MongoDatabase *mongo.Database

	Metrics *metrics.Collector
	Client  *directory.Client
	Catalog *directory.Catalog

	// Refresher is nil when periodic catalog reloads are disabled.
	Refresher *workers.CatalogRefresh
}
