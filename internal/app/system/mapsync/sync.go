package mapsync

import (
	"sync"

	"github.com/dalemusser/ecomap/internal/domain/models"
)

type placed struct {
	handle MarkerHandle
	pos    models.Coordinate
	popup  Popup
}

// Synchronizer owns the markers on one Surface. After every Sync the
// surface holds exactly one marker per distinct record in the set.
type Synchronizer struct {
	mu        sync.Mutex
	surface   Surface
	container string

	handle      Handle
	initialized bool
	pending     []models.Organization
	hasPending  bool
	markers     map[string]placed
}

func NewSynchronizer(surface Surface, container string) *Synchronizer {
	return &Synchronizer{
		surface:   surface,
		container: container,
		markers:   map[string]placed{},
	}
}

// Initialize prepares the surface and applies the most recent sync that
// arrived before it. Calling it again is a no-op.
func (s *Synchronizer) Initialize() (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return s.handle, nil
	}
	h, err := s.surface.Initialize(s.container)
	if err != nil {
		return "", err
	}
	s.handle = h
	s.initialized = true
	if s.hasPending {
		orgs := s.pending
		s.pending, s.hasPending = nil, false
		s.apply(orgs)
	}
	return h, nil
}

// Sync makes the surface's markers match orgs. Before Initialize the set
// is held and applied on initialization.
func (s *Synchronizer) Sync(orgs []models.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		s.pending, s.hasPending = orgs, true
		return
	}
	s.apply(orgs)
}

// Present lets a Synchronizer act as the directory's map presenter.
func (s *Synchronizer) Present(orgs []models.Organization) { s.Sync(orgs) }

// MarkerCount reports how many markers the synchronizer has placed.
func (s *Synchronizer) MarkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

func (s *Synchronizer) apply(orgs []models.Organization) {
	want := make(map[string]models.Organization, len(orgs))
	order := make([]string, 0, len(orgs))
	for _, o := range orgs {
		k := key(o)
		if _, dup := want[k]; dup {
			continue
		}
		want[k] = o
		order = append(order, k)
	}

	for k, m := range s.markers {
		o, keep := want[k]
		if keep && m.pos == o.Position() && m.popup == PopupFor(o) {
			continue
		}
		s.surface.RemoveMarker(m.handle)
		delete(s.markers, k)
	}

	points := make([]models.Coordinate, 0, len(order))
	for _, k := range order {
		o := want[k]
		if _, ok := s.markers[k]; !ok {
			pos, popup := o.Position(), PopupFor(o)
			s.markers[k] = placed{handle: s.surface.AddMarker(pos, popup), pos: pos, popup: popup}
		}
		points = append(points, s.markers[k].pos)
	}

	if len(points) > 0 {
		s.surface.FitBounds(points, BoundsPadding)
	}
}

// key is the record identity; unsaved records fall back to their name.
func key(o models.Organization) string {
	if o.ID != "" {
		return "id:" + o.ID
	}
	return "name:" + o.Organization
}
