package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestValidateConfig_Backends(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}

	cases := []struct {
		name    string
		cfg     AppConfig
		wantErr bool
	}{
		{"sqlite", AppConfig{StoreBackend: "sqlite", SQLitePath: "data/ecomap.db"}, false},
		{"postgres", AppConfig{StoreBackend: "postgres", PostgresDSN: "postgres://localhost/ecomap"}, false},
		{"postgres missing dsn", AppConfig{StoreBackend: "postgres"}, true},
		{"mongo", AppConfig{StoreBackend: "mongo", MongoURI: "mongodb://localhost:27017", MongoDatabase: "ecomap"}, false},
		{"unknown backend", AppConfig{StoreBackend: "csv"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(dev, tc.cfg, testLogger())
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfig_ProdRequiresSessionKey(t *testing.T) {
	prod := &config.CoreConfig{Env: "prod"}
	cfg := AppConfig{StoreBackend: "sqlite", SQLitePath: "data/ecomap.db"}

	if err := ValidateConfig(prod, cfg, testLogger()); err == nil {
		t.Fatal("expected error without session key in prod")
	}
	cfg.SessionKey = strings.Repeat("k", 32)
	if err := ValidateConfig(prod, cfg, testLogger()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestDebugInfo_MasksDSN(t *testing.T) {
	cfg := AppConfig{StoreBackend: "postgres", PostgresDSN: "postgres://eco:hunter2@db:5432/ecomap"}
	info := debugInfo(&config.CoreConfig{Env: "dev"}, cfg)

	if strings.Contains(info.DSN, "hunter2") {
		t.Errorf("DSN not masked: %q", info.DSN)
	}
	if !info.Configured || info.Backend != "postgres" {
		t.Errorf("info = %+v", info)
	}
}

func TestValidateConfig_CatalogRefresh(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	cfg := AppConfig{StoreBackend: "sqlite", SQLitePath: "data/ecomap.db"}

	if err := ValidateConfig(dev, cfg, testLogger()); err != nil {
		t.Fatalf("zero interval should disable refresh, got %v", err)
	}
	cfg.CatalogRefresh = -time.Minute
	if err := ValidateConfig(dev, cfg, testLogger()); err == nil {
		t.Fatal("expected error for negative catalog_refresh")
	}
}
