// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	aboutfeature "github.com/dalemusser/ecomap/internal/app/features/about"
	apifeature "github.com/dalemusser/ecomap/internal/app/features/api"
	browsefeature "github.com/dalemusser/ecomap/internal/app/features/browse"
	debugfeature "github.com/dalemusser/ecomap/internal/app/features/debug"
	errorsfeature "github.com/dalemusser/ecomap/internal/app/features/errors"
	healthfeature "github.com/dalemusser/ecomap/internal/app/features/health"
	"github.com/dalemusser/ecomap/internal/app/system/ratelimit"
	"github.com/dalemusser/ecomap/internal/app/system/viewsession"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, store connection, schema setup,
// and Startup have completed. EcoMap boots the template engine, wraps the
// router in request metrics, and mounts the directory and about pages, the
// JSON API, health, debug, metrics, and static files.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	views, err := viewsession.New(appCfg.SessionKey, appCfg.SessionName, secure, logger)
	if err != nil {
		logger.Error("view session init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	r := chi.NewRouter()
	r.Use(deps.Metrics.Middleware)

	errHandler := errorsfeature.NewHandler()
	r.NotFound(errHandler.NotFound)

	browseHandler := browsefeature.NewHandler(deps.Catalog, views, deps.Metrics, appCfg.MapTileURL, logger)
	r.Mount("/", browsefeature.Routes(browseHandler))

	aboutHandler := aboutfeature.NewHandler(deps.Catalog, logger)
	r.Mount("/about", aboutfeature.Routes(aboutHandler))

	apiHandler := apifeature.NewHandler(deps.Catalog, deps.Store, logger)
	if appCfg.AdminAPI {
		apiHandler.Limiter = ratelimit.New(appCfg.AdminWriteLimit, time.Minute)
	}
	r.Mount("/api", apifeature.Routes(apiHandler, appCfg.AdminAPI))

	healthHandler := healthfeature.NewHandler(deps.Store, deps.Backend, deps.Catalog, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Debug exposes configuration shape only; it is left out of prod.
	if coreCfg.Env != "prod" {
		debugHandler := debugfeature.NewHandler(debugInfo(coreCfg, appCfg), deps.Catalog, logger)
		r.Mount("/debug", debugfeature.Routes(debugHandler))
	}

	r.Handle("/metrics", deps.Metrics.Handler())
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	return r, nil
}

func debugInfo(coreCfg *config.CoreConfig, appCfg AppConfig) debugfeature.Info {
	opts := appCfg.StoreOptions()
	return debugfeature.Info{
		Backend:    appCfg.StoreBackend,
		DSN:        debugfeature.MaskDSN(opts.DSN()),
		TileURL:    appCfg.MapTileURL,
		AdminAPI:   appCfg.AdminAPI,
		Env:        coreCfg.Env,
		Configured: opts.Validate() == nil,
	}
}
