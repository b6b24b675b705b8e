// internal/app/features/debug/handler.go
package debug

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dalemusser/ecomap/internal/app/directory"
	"go.uber.org/zap"
)

// Info is the configuration the debug endpoint reports. DSN is already
// masked by the time it gets here.
type Info struct {
	Backend    string
	DSN        string
	TileURL    string
	AdminAPI   bool
	Env        string
	Configured bool
}

// Handler reports which store the app is wired to, without secrets.
type Handler struct {
	Info    Info
	Catalog *directory.Catalog
	Log     *zap.Logger
}

func NewHandler(info Info, catalog *directory.Catalog, logger *zap.Logger) *Handler {
	return &Handler{Info: info, Catalog: catalog, Log: logger}
}

type response struct {
	Env        string `json:"env"`
	Backend    string `json:"backend"`
	Configured bool   `json:"configured"`
	DSN        string `json:"dsn,omitempty"`
	TileURL    string `json:"tile_url"`
	AdminAPI   bool   `json:"admin_api"`
	Catalog    string `json:"catalog"`
	Records    int    `json:"records"`
	Categories int    `json:"categories"`
	Degraded   bool   `json:"degraded"`
}

// Serve handles GET /debug.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	resp := response{
		Env:        h.Info.Env,
		Backend:    h.Info.Backend,
		Configured: h.Info.Configured,
		DSN:        h.Info.DSN,
		TileURL:    h.Info.TileURL,
		AdminAPI:   h.Info.AdminAPI,
	}
	if h.Catalog != nil {
		snap := h.Catalog.Snapshot()
		resp.Catalog = snap.Phase.String()
		resp.Records = len(snap.Records)
		resp.Categories = len(snap.Categories)
		resp.Degraded = snap.Degraded
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.Warn("encode debug response failed", zap.Error(err))
	}
}

// MaskDSN hides the password in a URL-form DSN. SQLite paths and other
// non-URL values come back unchanged; a DSN that does not parse is
// replaced entirely.
func MaskDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "(unparseable)"
	}
	if u.Scheme == "" || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
