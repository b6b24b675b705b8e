// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/ecomap/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for EcoMap.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: store_backend, postgres_dsn, etc.
//   - Environment variables: ECOMAP_STORE_BACKEND, ECOMAP_POSTGRES_DSN, etc.
//   - Command-line flags: --store_backend, --postgres_dsn, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: "sqlite", Desc: "Record store: 'mongo', 'postgres', or 'sqlite'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ecomap", Desc: "MongoDB database name"},
	{Name: "postgres_dsn", Default: "", Desc: "Postgres connection string"},
	{Name: "sqlite_path", Default: "data/ecomap.db", Desc: "SQLite database file"},

	{Name: "session_key", Default: "", Desc: "View-preference cookie signing key (must be set in production)"},
	{Name: "session_name", Default: "ecomap-view", Desc: "View-preference cookie name"},

	{Name: "admin_api", Default: false, Desc: "Mount the JSON write endpoints (POST/PATCH/DELETE)"},
	{Name: "admin_write_limit", Default: 30, Desc: "Admin API writes allowed per client IP per minute"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public base URL"},
	{Name: "map_tile_url", Default: "", Desc: "Leaflet tile URL template (blank: OpenStreetMap)"},

	{Name: "catalog_refresh", Default: "5m", Desc: "Catalog reload interval (0 disables)"},

	// Store deadlines
	{Name: "timeout_ping", Default: "2s", Desc: "Store ping timeout"},
	{Name: "timeout_read", Default: "5s", Desc: "Single read timeout"},
	{Name: "timeout_load", Default: "15s", Desc: "Catalog load timeout (both startup reads)"},
	{Name: "timeout_write", Default: "10s", Desc: "Single write timeout"},
	{Name: "timeout_batch", Default: "60s", Desc: "Seed and export timeout"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// ECOMAP_* environment variables, and flags with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ECOMAP", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend:  strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		PostgresDSN:   appValues.String("postgres_dsn"),
		SQLitePath:    appValues.String("sqlite_path"),

		SessionKey:  appValues.String("session_key"),
		SessionName: appValues.String("session_name"),

		AdminAPI:        appValues.Bool("admin_api"),
		AdminWriteLimit: appValues.Int("admin_write_limit"),
		BaseURL:         appValues.String("base_url"),
		MapTileURL:      appValues.String("map_tile_url"),
		CatalogRefresh:  appValues.Duration("catalog_refresh", 5*time.Minute),

		Timeouts: timeouts.Config{
			Ping:  appValues.Duration("timeout_ping", timeouts.DefaultPing),
			Read:  appValues.Duration("timeout_read", timeouts.DefaultRead),
			Load:  appValues.Duration("timeout_load", timeouts.DefaultLoad),
			Write: appValues.Duration("timeout_write", timeouts.DefaultWrite),
			Batch: appValues.Duration("timeout_batch", timeouts.DefaultBatch),
		},
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// EcoMap checks the backend choice and its connection settings (including
// the MongoDB URI format) to catch configuration errors before connecting.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := appCfg.StoreOptions().Validate(); err != nil {
		logger.Error("invalid store configuration", zap.String("backend", appCfg.StoreBackend), zap.Error(err))
		return err
	}

	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == "" {
		return fmt.Errorf("session_key must be set in prod")
	}
	if appCfg.AdminAPI && appCfg.AdminWriteLimit <= 0 {
		return fmt.Errorf("admin_write_limit must be positive when admin_api is enabled")
	}
	if appCfg.CatalogRefresh < 0 {
		return fmt.Errorf("catalog_refresh must not be negative")
	}
	if appCfg.AdminAPI {
		logger.Warn("admin API enabled; write endpoints are unauthenticated")
	}
	return nil
}
