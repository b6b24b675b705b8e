// internal/app/features/api/read.go
package api

import (
	"net/http"

	"github.com/dalemusser/ecomap/internal/app/directory"
	"github.com/dalemusser/ecomap/internal/app/system/timeouts"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type listResponse struct {
	Status        string                `json:"status"`
	Degraded      bool                  `json:"degraded"`
	Total         int                   `json:"total"`
	Count         int                   `json:"count"`
	Organizations []models.Organization `json:"organizations"`
}

type categoriesResponse struct {
	Status     string   `json:"status"`
	Degraded   bool     `json:"degraded"`
	Categories []string `json:"categories"`
}

// ListOrganizations handles GET /api/organizations with the same q,
// category, and scope parameters as the directory page.
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	snap := h.Catalog.Snapshot()
	criteria := directory.CriteriaFromValues(r.URL.Query())

	resp := listResponse{
		Status:        snap.Phase.String(),
		Degraded:      snap.Degraded,
		Total:         len(snap.Records),
		Organizations: []models.Organization{},
	}
	if snap.Phase == directory.PhaseLoaded {
		resp.Organizations = directory.Filter(snap.Records, criteria)
	}
	resp.Count = len(resp.Organizations)
	writeJSON(w, http.StatusOK, resp)
}

// GetOrganization handles GET /api/organizations/{id}. It reads the store
// directly so a record written a moment ago is visible.
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "api.get_organization")
	defer cancel()

	org, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.writeStoreError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	snap := h.Catalog.Snapshot()
	writeJSON(w, http.StatusOK, categoriesResponse{
		Status:     snap.Phase.String(),
		Degraded:   snap.Degraded,
		Categories: snap.Categories,
	})
}
