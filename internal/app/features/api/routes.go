// internal/app/features/api/routes.go
package api

import (
	"github.com/dalemusser/ecomap/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the read API, plus the write endpoints when admin is true.
// Writes are rate limited per client IP when the handler has a Limiter.
func Routes(h *Handler, admin bool) chi.Router {
	r := chi.NewRouter()
	r.Get("/organizations", h.ListOrganizations)
	r.Get("/organizations/{id}", h.GetOrganization)
	r.Get("/categories", h.ListCategories)

	if admin {
		r.Group(func(r chi.Router) {
			if h.Limiter != nil {
				r.Use(ratelimit.Middleware(h.Limiter, h.Log))
			}
			r.Post("/organizations", h.CreateOrganization)
			r.Patch("/organizations/{id}", h.UpdateOrganization)
			r.Delete("/organizations/{id}", h.DeleteOrganization)
		})
	}
	return r
}
