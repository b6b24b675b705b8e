// internal/app/features/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/ecomap/internal/app/directory"
	organizationstore "github.com/dalemusser/ecomap/internal/app/store/organizations"
	"github.com/dalemusser/ecomap/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// maxBodyBytes caps admin write payloads.
const maxBodyBytes = 1 << 20

// Handler serves the JSON API. Reads come from the catalog snapshot;
// admin writes go straight to the store and then refresh the catalog.
type Handler struct {
	Catalog *directory.Catalog
	Store   organizationstore.Backend
	Limiter *ratelimit.Limiter // optional; limits admin writes per IP
	Log     *zap.Logger
}

func NewHandler(catalog *directory.Catalog, store organizationstore.Backend, logger *zap.Logger) *Handler {
	return &Handler{Catalog: catalog, Store: store, Log: logger}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeStoreError maps store sentinels to HTTP statuses. Anything else is
// logged and reported as a 500 without detail.
func (h *Handler) writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, organizationstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "organization not found")
	case errors.Is(err, organizationstore.ErrInvalidOrganization), errors.Is(err, organizationstore.ErrInvalidScope):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, organizationstore.ErrDuplicateOrganization):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.Log.Error("api store operation failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
