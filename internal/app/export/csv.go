// Package export writes the directory out as CSV, locally or to S3.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dalemusser/ecomap/internal/domain/models"
)

// Columns is the CSV header, in the order the research scraper emits.
var Columns = []string{
	"organization", "website", "location", "type", "description",
	"services", "contact", "scope", "founded", "latitude", "longitude",
	"tier", "category", "confidence_level", "notes",
}

func formatCoord(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func row(o models.Organization) []string {
	return []string{
		o.Organization, o.Website, o.Location, o.Type, o.Description,
		o.Services, o.Contact, string(o.Scope), o.Founded,
		formatCoord(o.Latitude), formatCoord(o.Longitude),
		o.Tier, o.Category, o.ConfidenceLevel, o.Notes,
	}
}

// WriteCSV writes a header and one row per organization.
func WriteCSV(w io.Writer, orgs []models.Organization) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, o := range orgs {
		if err := cw.Write(row(o)); err != nil {
			return fmt.Errorf("write %q: %w", o.Organization, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
