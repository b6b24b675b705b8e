// internal/app/store/organizations/open.go
package organizationstore

import (
	"context"
	"fmt"
	"strings"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Backend names accepted by Options.Backend.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Options selects and locates a backend.
type Options struct {
	Backend       string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
	SQLitePath    string
}

// Validate checks that the chosen backend is known and has what it needs
// to connect.
func (o Options) Validate() error {
	switch strings.ToLower(o.Backend) {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(o.MongoURI); err != nil {
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if o.MongoDatabase == "" {
			return fmt.Errorf("mongo backend requires a database name")
		}
	case BackendPostgres:
		if o.PostgresDSN == "" {
			return fmt.Errorf("postgres backend requires a DSN")
		}
	case BackendSQLite:
		if o.SQLitePath == "" {
			return fmt.Errorf("sqlite backend requires a path")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want %s, %s, or %s)", o.Backend, BackendMongo, BackendPostgres, BackendSQLite)
	}
	return nil
}

// DSN is the connection string of the chosen backend.
func (o Options) DSN() string {
	switch strings.ToLower(o.Backend) {
	case BackendMongo:
		return o.MongoURI
	case BackendPostgres:
		return o.PostgresDSN
	case BackendSQLite:
		return o.SQLitePath
	}
	return ""
}

// Open connects to the backend named by o. SQL backends have their schema
// ensured on open; Mongo indexes are left to the caller.
func Open(ctx context.Context, o Options, logger *zap.Logger) (Backend, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	switch strings.ToLower(o.Backend) {
	case BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(o.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		logger.Info("connected to MongoDB", zap.String("database", o.MongoDatabase))
		return New(client.Database(o.MongoDatabase)), nil
	case BackendPostgres:
		s, err := OpenPostgres(ctx, o.PostgresDSN)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to Postgres")
		return s, nil
	default:
		s, err := OpenSQLite(ctx, o.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("opened SQLite database", zap.String("path", o.SQLitePath))
		return s, nil
	}
}
