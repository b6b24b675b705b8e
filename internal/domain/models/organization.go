// internal/domain/models/organization.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// Scope is the geographic reach of an organization.
type Scope string

const (
	ScopeLocal         Scope = "Local"
	ScopeRegional      Scope = "Regional"
	ScopeState         Scope = "State"
	ScopeNational      Scope = "National"
	ScopeInternational Scope = "International"
	ScopeContinental   Scope = "Continental"
	ScopeLocalNational Scope = "Local/National"
)

// Scopes lists every valid scope in display order.
var Scopes = []Scope{
	ScopeLocal,
	ScopeRegional,
	ScopeState,
	ScopeNational,
	ScopeInternational,
	ScopeContinental,
	ScopeLocalNational,
}

// SelectableScopes are the scopes offered in the scope filter.
// Local/National is stored but not offered as a filter choice.
var SelectableScopes = []Scope{
	ScopeLocal,
	ScopeRegional,
	ScopeState,
	ScopeNational,
	ScopeInternational,
	ScopeContinental,
}

// ParseScope matches s against the scope enumeration, ignoring case and
// surrounding whitespace.
func ParseScope(s string) (Scope, error) {
	s = strings.TrimSpace(s)
	for _, sc := range Scopes {
		if strings.EqualFold(s, string(sc)) {
			return sc, nil
		}
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FallbackCoordinate is the continental-USA centroid used for records
// without geocoding.
var FallbackCoordinate = Coordinate{Lat: 39.8283, Lng: -98.5795}

// Organization is one directory entry.
//
// The *CI fields hold folded copies of the searchable text and are always
// written by the stores; they are never shown.
type Organization struct {
	ID              string    `bson:"_id" json:"id"`
	Organization    string    `bson:"organization" json:"organization" yaml:"organization"`
	OrganizationCI  string    `bson:"organization_ci" json:"-" yaml:"-"`
	Category        string    `bson:"category" json:"category" yaml:"category"`
	Type            string    `bson:"type" json:"type" yaml:"type"`
	Location        string    `bson:"location" json:"location" yaml:"location"`
	LocationCI      string    `bson:"location_ci" json:"-" yaml:"-"`
	Description     string    `bson:"description" json:"description" yaml:"description"`
	DescriptionCI   string    `bson:"description_ci" json:"-" yaml:"-"`
	Services        string    `bson:"services" json:"services" yaml:"services"`
	Contact         string    `bson:"contact" json:"contact" yaml:"contact"`
	Website         string    `bson:"website" json:"website" yaml:"website"`
	Scope           Scope     `bson:"scope" json:"scope" yaml:"scope"`
	Founded         string    `bson:"founded" json:"founded" yaml:"founded"`
	Tier            string    `bson:"tier,omitempty" json:"tier,omitempty" yaml:"tier,omitempty"`
	ConfidenceLevel string    `bson:"confidence_level,omitempty" json:"confidence_level,omitempty" yaml:"confidence_level,omitempty"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty" yaml:"notes,omitempty"`
	Latitude        *float64  `bson:"latitude,omitempty" json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude       *float64  `bson:"longitude,omitempty" json:"longitude,omitempty" yaml:"longitude,omitempty"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at" yaml:"-"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at" yaml:"-"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (o Organization) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// Position returns the record's coordinate, or FallbackCoordinate when the
// record is not geocoded.
func (o Organization) Position() Coordinate {
	if !o.HasCoordinates() {
		return FallbackCoordinate
	}
	return Coordinate{Lat: *o.Latitude, Lng: *o.Longitude}
}

// WebsiteURL returns the website as an absolute https URL, or "" when the
// record has no website. Stored websites are bare hosts ("tides.org").
func (o Organization) WebsiteURL() string {
	w := strings.TrimSpace(o.Website)
	if w == "" {
		return ""
	}
	if strings.HasPrefix(w, "http://") || strings.HasPrefix(w, "https://") {
		return w
	}
	return "https://" + w
}

// OrganizationPatch is a partial update. Nil fields are left unchanged.
type OrganizationPatch struct {
	Organization    *string  `json:"organization,omitempty"`
	Category        *string  `json:"category,omitempty"`
	Type            *string  `json:"type,omitempty"`
	Location        *string  `json:"location,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Services        *string  `json:"services,omitempty"`
	Contact         *string  `json:"contact,omitempty"`
	Website         *string  `json:"website,omitempty"`
	Scope           *Scope   `json:"scope,omitempty"`
	Founded         *string  `json:"founded,omitempty"`
	Tier            *string  `json:"tier,omitempty"`
	ConfidenceLevel *string  `json:"confidence_level,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// Apply copies the set fields of p onto o.
func (p OrganizationPatch) Apply(o *Organization) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&o.Organization, p.Organization)
	setString(&o.Category, p.Category)
	setString(&o.Type, p.Type)
	setString(&o.Location, p.Location)
	setString(&o.Description, p.Description)
	setString(&o.Services, p.Services)
	setString(&o.Contact, p.Contact)
	setString(&o.Website, p.Website)
	setString(&o.Founded, p.Founded)
	setString(&o.Tier, p.Tier)
	setString(&o.ConfidenceLevel, p.ConfidenceLevel)
	setString(&o.Notes, p.Notes)
	if p.Scope != nil {
		o.Scope = *p.Scope
	}
	if p.Latitude != nil {
		o.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		o.Longitude = p.Longitude
	}
}
