// internal/app/features/about/handler.go
package about

import (
	"net/http"

	"github.com/dalemusser/ecomap/internal/app/directory"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type pageData struct {
	Title         string
	Organizations int
	Categories    []string
	Scopes        []models.Scope
	Loading       bool
}

type Handler struct {
	Catalog *directory.Catalog
	Log     *zap.Logger
}

func NewHandler(catalog *directory.Catalog, logger *zap.Logger) *Handler {
	return &Handler{Catalog: catalog, Log: logger}
}

func buildPage(snap directory.Snapshot) pageData {
	return pageData{
		Title:         "About EcoMap",
		Organizations: len(snap.Records),
		Categories:    snap.Categories,
		Scopes:        models.Scopes,
		Loading:       snap.Phase == directory.PhaseLoading,
	}
}

func (h *Handler) ServeAbout(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "about", buildPage(h.Catalog.Snapshot()))
}
