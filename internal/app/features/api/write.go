// internal/app/features/api/write.go
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ecomap/internal/app/system/timeouts"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// refresh reloads the catalog after a write. The reload outlives a
// cancelled request so the next reader sees the change.
func (h *Handler) refresh(r *http.Request) {
	snap := h.Catalog.Refresh(context.WithoutCancel(r.Context()))
	if snap.Degraded {
		h.Log.Warn("catalog refresh after write degraded")
	}
}

// CreateOrganization handles POST /api/organizations.
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var org models.Organization
	if !decodeBody(w, r, &org) {
		return
	}
	org.ID = ""

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "api.create_organization")
	defer cancel()

	created, err := h.Store.Create(ctx, org)
	if err != nil {
		h.writeStoreError(w, "create", err)
		return
	}
	h.Log.Info("organization created", zap.String("id", created.ID), zap.String("organization", created.Organization))
	h.refresh(r)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateOrganization handles PATCH /api/organizations/{id}.
func (h *Handler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch models.OrganizationPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "api.update_organization")
	defer cancel()

	updated, err := h.Store.Update(ctx, id, patch)
	if err != nil {
		h.writeStoreError(w, "update", err)
		return
	}
	h.Log.Info("organization updated", zap.String("id", id))
	h.refresh(r)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteOrganization handles DELETE /api/organizations/{id}.
func (h *Handler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "api.delete_organization")
	defer cancel()

	n, err := h.Store.Delete(ctx, id)
	if err != nil {
		h.writeStoreError(w, "delete", err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "organization not found")
		return
	}
	h.Log.Info("organization deleted", zap.String("id", id))
	h.refresh(r)
	w.WriteHeader(http.StatusNoContent)
}
