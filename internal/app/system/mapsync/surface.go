// Package mapsync keeps the markers on a basemap in step with the
// directory's filtered result set.
package mapsync

import (
	"github.com/dalemusser/ecomap/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ecomap/internal/domain/models"
)

// Handle identifies an initialized map.
type Handle string

// MarkerHandle identifies one marker on a surface.
type MarkerHandle int

// Surface is a basemap that can hold markers.
type Surface interface {
	Initialize(container string) (Handle, error)
	AddMarker(pos models.Coordinate, popup Popup) MarkerHandle
	RemoveMarker(h MarkerHandle)
	// FitBounds moves the viewport to the box enclosing points, grown by
	// padding (a fraction of the box's span) on each side.
	FitBounds(points []models.Coordinate, padding float64)
}

// DescriptionLimit is the popup description length, in characters, before
// it is cut and marked with an ellipsis.
const DescriptionLimit = 100

// BoundsPadding is the fraction of the marker span added on each side
// when fitting the viewport.
const BoundsPadding = 0.1

// Popup is the content shown for a marker.
type Popup struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Location    string `json:"location,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

// PopupFor builds the popup for o.
func PopupFor(o models.Organization) Popup {
	return Popup{
		Name:        htmlsanitize.PlainText(o.Organization),
		Type:        htmlsanitize.PlainText(o.Type),
		Location:    htmlsanitize.PlainText(o.Location),
		Scope:       string(o.Scope),
		Description: htmlsanitize.Truncate(htmlsanitize.PlainText(o.Description), DescriptionLimit),
		Website:     o.WebsiteURL(),
	}
}
