// internal/app/features/browse/routes.go
package browse

import "github.com/go-chi/chi/v5"

// Routes serves the directory at "/" plus the HTMX and map endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServePage)
	r.Get("/directory/results", h.ServeResults)
	r.Get("/directory/layer.json", h.ServeLayer)
	return r
}
