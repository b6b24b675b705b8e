package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ecomap/internal/app/directory"
	"github.com/dalemusser/ecomap/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pinger is the part of a store backend the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Store   Pinger
	Backend string
	Catalog *directory.Catalog
	Log     *zap.Logger
}

// NewHandler constructs a health Handler for the configured backend.
func NewHandler(store Pinger, backend string, catalog *directory.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   store,
		Backend: backend,
		Catalog: catalog,
		Log:     logger,
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Database string `json:"database"`
	Catalog  string `json:"catalog,omitempty"`
	Records  int    `json:"records"`
	Degraded bool   `json:"degraded,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "backend":"postgres", "database":"connected", "catalog":"loaded", "records":42 }
//
// On store failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Backend:  h.Backend,
		Database: "connected",
	}
	if h.Catalog != nil {
		snap := h.Catalog.Snapshot()
		resp.Catalog = snap.Phase.String()
		resp.Records = len(snap.Records)
		resp.Degraded = snap.Degraded
	}

	if err := h.Store.Ping(ctx); err != nil {
		h.Log.Error("health-check: store ping failed", zap.String("backend", h.Backend), zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
