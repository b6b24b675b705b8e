package directory

import (
	"strings"

	"github.com/dalemusser/ecomap/internal/domain/models"
)

// Mode selects the active presentation.
type Mode int

const (
	ModeList Mode = iota
	ModeMap
)

func (m Mode) String() string {
	if m == ModeMap {
		return "map"
	}
	return "list"
}

// ParseMode maps "list"/"map" to a Mode. ok is false for anything else.
func ParseMode(s string) (m Mode, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "list":
		return ModeList, true
	case "map":
		return ModeMap, true
	}
	return ModeList, false
}

// Presenter receives the filtered set whenever it is the active
// presentation and the set (or the mode) changes.
type Presenter interface {
	Present(orgs []models.Organization)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(orgs []models.Organization)

func (f PresenterFunc) Present(orgs []models.Organization) { f(orgs) }

// State is the view orchestrator for one visitor: it holds the full record
// set, the criteria, the mode, and the current filtered set, and pushes
// the filtered set to the active presenter. It is not safe for concurrent
// use; build one per request.
type State struct {
	records    []models.Organization
	categories []string
	criteria   Criteria
	mode       Mode
	phase      Phase
	degraded   bool
	filtered   []models.Organization

	presenters map[Mode]Presenter
	filterRuns int
}

// NewState returns a state in list mode with empty criteria, waiting for
// records. Either presenter may be nil.
func NewState(list, mapView Presenter) *State {
	return &State{
		records:    []models.Organization{},
		categories: []string{},
		filtered:   []models.Organization{},
		phase:      PhaseLoading,
		presenters: map[Mode]Presenter{ModeList: list, ModeMap: mapView},
	}
}

// Load installs a catalog snapshot. A snapshot still in PhaseLoading
// leaves the state loading.
func (s *State) Load(snap Snapshot) {
	if snap.Phase != PhaseLoaded {
		return
	}
	s.records = snap.Records
	s.categories = snap.Categories
	s.degraded = snap.Degraded
	s.phase = PhaseLoaded
	s.refilter()
}

// SetCriteria replaces all criteria and refilters.
func (s *State) SetCriteria(c Criteria) {
	s.criteria = c
	s.refilter()
}

func (s *State) SetQuery(q string) {
	s.criteria.Query = q
	s.refilter()
}

func (s *State) SetCategories(values []string) {
	s.criteria.Categories = NormalizeSelection(values)
	s.refilter()
}

func (s *State) SetScopes(values []string) {
	s.criteria.Scopes = CriteriaFromValues(map[string][]string{"scope": values}).Scopes
	s.refilter()
}

// SetMode switches presentations. The current filtered set is handed to
// the new presenter as is; nothing is refetched or refiltered.
func (s *State) SetMode(m Mode) {
	s.mode = m
	s.present()
}

func (s *State) Mode() Mode                      { return s.mode }
func (s *State) Phase() Phase                    { return s.phase }
func (s *State) Degraded() bool                  { return s.degraded }
func (s *State) Criteria() Criteria              { return s.criteria }
func (s *State) Records() []models.Organization  { return s.records }
func (s *State) Categories() []string            { return s.categories }
func (s *State) Filtered() []models.Organization { return s.filtered }

// Find returns the record with id from the full set.
func (s *State) Find(id string) (models.Organization, bool) {
	for _, o := range s.records {
		if o.ID == id {
			return o, true
		}
	}
	return models.Organization{}, false
}

func (s *State) refilter() {
	if s.phase != PhaseLoaded {
		return
	}
	s.filtered = Filter(s.records, s.criteria)
	s.filterRuns++
	s.present()
}

func (s *State) present() {
	if s.phase != PhaseLoaded {
		return
	}
	if p := s.presenters[s.mode]; p != nil {
		p.Present(s.filtered)
	}
}
