package mapsync

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/dalemusser/ecomap/internal/domain/models"
)

const (
	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = "&copy; OpenStreetMap contributors"
	DefaultZoom        = 4
)

// Bounds is a lat/lng box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// BoundsOf returns the box enclosing points grown by padding times its
// height and width on each side. points must not be empty.
func BoundsOf(points []models.Coordinate, padding float64) Bounds {
	b := Bounds{South: math.Inf(1), West: math.Inf(1), North: math.Inf(-1), East: math.Inf(-1)}
	for _, p := range points {
		b.South = math.Min(b.South, p.Lat)
		b.North = math.Max(b.North, p.Lat)
		b.West = math.Min(b.West, p.Lng)
		b.East = math.Max(b.East, p.Lng)
	}
	dLat := (b.North - b.South) * padding
	dLng := (b.East - b.West) * padding
	b.South -= dLat
	b.North += dLat
	b.West -= dLng
	b.East += dLng
	return b
}

// Marker is one placed marker in a Layer.
type Marker struct {
	ID    MarkerHandle `json:"id"`
	Lat   float64      `json:"lat"`
	Lng   float64      `json:"lng"`
	Popup Popup        `json:"popup"`
}

// Layer is the serialized state of a LayerSurface, drawn by the browser
// with Leaflet.
type Layer struct {
	Container   string            `json:"container"`
	TileURL     string            `json:"tile_url"`
	Attribution string            `json:"attribution"`
	Center      models.Coordinate `json:"center"`
	Zoom        int               `json:"zoom"`
	Markers     []Marker          `json:"markers"`
	Bounds      *Bounds           `json:"bounds,omitempty"`
}

// LayerSurface is a Surface that records markers and the viewport in
// memory so the page can ship them to the browser.
type LayerSurface struct {
	mu          sync.Mutex
	tileURL     string
	attribution string
	container   string
	next        MarkerHandle
	markers     map[MarkerHandle]Marker
	bounds      *Bounds
}

func NewLayerSurface(tileURL, attribution string) *LayerSurface {
	if tileURL == "" {
		tileURL = DefaultTileURL
	}
	if attribution == "" {
		attribution = DefaultAttribution
	}
	return &LayerSurface{tileURL: tileURL, attribution: attribution, markers: map[MarkerHandle]Marker{}}
}

func (l *LayerSurface) Initialize(container string) (Handle, error) {
	if container == "" {
		return "", errors.New("map container id is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.container = container
	return Handle(container), nil
}

func (l *LayerSurface) AddMarker(pos models.Coordinate, popup Popup) MarkerHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.markers[l.next] = Marker{ID: l.next, Lat: pos.Lat, Lng: pos.Lng, Popup: popup}
	return l.next
}

func (l *LayerSurface) RemoveMarker(h MarkerHandle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.markers, h)
}

func (l *LayerSurface) FitBounds(points []models.Coordinate, padding float64) {
	if len(points) == 0 {
		return
	}
	b := BoundsOf(points, padding)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bounds = &b
}

// Layer returns the current markers (in placement order) and viewport.
func (l *LayerSurface) Layer() Layer {
	l.mu.Lock()
	defer l.mu.Unlock()
	markers := make([]Marker, 0, len(l.markers))
	for _, m := range l.markers {
		markers = append(markers, m)
	}
	sort.Slice(markers, func(i, j int) bool { return markers[i].ID < markers[j].ID })

	layer := Layer{
		Container:   l.container,
		TileURL:     l.tileURL,
		Attribution: l.attribution,
		Center:      models.FallbackCoordinate,
		Zoom:        DefaultZoom,
		Markers:     markers,
	}
	if l.bounds != nil {
		b := *l.bounds
		layer.Bounds = &b
	}
	return layer
}
