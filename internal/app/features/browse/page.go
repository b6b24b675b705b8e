// internal/app/features/browse/page.go
package browse

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ecomap/internal/app/directory"
	"github.com/dalemusser/ecomap/internal/app/system/mapsync"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// resultsTarget is the element HTMX swaps when filters change.
const resultsTarget = "directory-results"

// build runs one pass of the directory state for r: it installs the
// catalog snapshot, applies the request's criteria and mode, and collects
// whatever the active presenter produced.
func (h *Handler) build(mode directory.Mode, r *http.Request) pageData {
	criteria := directory.CriteriaFromValues(r.URL.Query())
	selected := query.Get(r, "selected")

	var list *listView
	listPresenter := directory.PresenterFunc(func(orgs []models.Organization) {
		list = buildList(orgs, criteria, selected)
	})

	surface := mapsync.NewLayerSurface(h.TileURL, h.Attribution)
	markers := mapsync.NewSynchronizer(surface, mapContainerID)

	state := directory.NewState(listPresenter, markers)
	state.SetMode(mode)
	state.SetCriteria(criteria)
	state.Load(h.Catalog.Snapshot())

	data := pageData{
		Title:       "Community Organization Directory",
		Query:       criteria.Query,
		Categories:  categoryOptions(state.Categories(), criteria),
		Scopes:      scopeOptions(criteria),
		Mode:        mode.String(),
		ListURL:     pageURL(criteria, "list", nil),
		MapURL:      pageURL(criteria, "map", nil),
		ResultsURL:  resultsURL(criteria, mode.String(), selected),
		Loading:     state.Phase() == directory.PhaseLoading,
		Degraded:    state.Degraded(),
		Total:       len(state.Records()),
		Shown:       len(state.Filtered()),
		CurrentPath: httpnav.CurrentPath(r),
	}
	h.Metrics.ObserveFiltered(data.Shown)

	if mode == directory.ModeMap && !data.Loading {
		if _, err := markers.Initialize(); err != nil {
			h.Log.Warn("map initialize failed", zap.Error(err))
		}
		layerQuery := criteria.Values()
		layerURL := "/directory/layer.json"
		if len(layerQuery) > 0 {
			layerURL += "?" + layerQuery.Encode()
		}
		data.Map = &mapView{Container: mapContainerID, LayerURL: layerURL, Layer: surface.Layer()}
	}
	if mode == directory.ModeList {
		data.List = list
	}
	return data
}

// ServePage handles GET /. It supports HTMX partial refresh of the results
// when HX-Target="directory-results".
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	mode := h.Views.Resolve(w, r)
	data := h.build(mode, r)

	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == resultsTarget {
		templates.RenderSnippet(w, "directory_results", data)
		return
	}
	templates.Render(w, r, "directory_page", data)
}

// ServeResults handles GET /directory/results, the results region alone.
func (h *Handler) ServeResults(w http.ResponseWriter, r *http.Request) {
	mode := h.Views.Resolve(w, r)
	templates.RenderSnippet(w, "directory_results", h.build(mode, r))
}

// ServeLayer handles GET /directory/layer.json: the markers and viewport
// for the current filters, drawn client side by Leaflet.
func (h *Handler) ServeLayer(w http.ResponseWriter, r *http.Request) {
	data := h.build(directory.ModeMap, r)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if data.Loading {
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "loading"})
		return
	}
	if err := json.NewEncoder(w).Encode(data.Map.Layer); err != nil {
		h.Log.Warn("encode map layer failed", zap.Error(err))
	}
}
