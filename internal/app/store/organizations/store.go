// internal/app/store/organizations/store.go
package organizationstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/ecomap/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

var (
	ErrDuplicateOrganization = errors.New("an organization with this name already exists")
	ErrNotFound              = errors.New("organization not found")
	ErrInvalidOrganization   = errors.New("invalid organization")
	ErrInvalidScope          = errors.New("invalid scope")
)

var (
	_ Backend = (*Store)(nil)
	_ Backend = (*SQLStore)(nil)
)

// Backend is the persistence contract shared by the Mongo, Postgres, and
// SQLite stores. List-style reads are ordered by organization name.
type Backend interface {
	List(ctx context.Context) ([]models.Organization, error)
	ListByCategory(ctx context.Context, category string) ([]models.Organization, error)
	// Search matches q as a case-insensitive substring of the name,
	// description, or location. An empty q matches everything.
	Search(ctx context.Context, q string) ([]models.Organization, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id string) (models.Organization, error)
	Create(ctx context.Context, org models.Organization) (models.Organization, error)
	Update(ctx context.Context, id string, patch models.OrganizationPatch) (models.Organization, error)
	// Delete returns the number of records removed (0 or 1).
	Delete(ctx context.Context, id string) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// prepare trims and sanitizes free text, validates the record invariants,
// and fills the folded search fields.
func prepare(org *models.Organization) error {
	org.Organization = htmlsanitize.PlainText(org.Organization)
	org.Category = htmlsanitize.PlainText(org.Category)
	org.Type = htmlsanitize.PlainText(org.Type)
	org.Location = htmlsanitize.PlainText(org.Location)
	org.Description = htmlsanitize.PlainText(org.Description)
	org.Services = htmlsanitize.PlainText(org.Services)
	org.Contact = strings.TrimSpace(org.Contact)
	org.Website = strings.TrimSpace(org.Website)
	org.Founded = strings.TrimSpace(org.Founded)
	org.Tier = strings.TrimSpace(org.Tier)
	org.ConfidenceLevel = strings.TrimSpace(org.ConfidenceLevel)
	org.Notes = htmlsanitize.PlainText(org.Notes)

	if org.Organization == "" {
		return fmt.Errorf("%w: organization name is required", ErrInvalidOrganization)
	}
	if org.Location == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidOrganization)
	}
	sc, err := models.ParseScope(string(org.Scope))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScope, err)
	}
	org.Scope = sc
	if (org.Latitude == nil) != (org.Longitude == nil) {
		return fmt.Errorf("%w: latitude and longitude must be set together", ErrInvalidOrganization)
	}
	if org.Latitude != nil && (*org.Latitude < -90 || *org.Latitude > 90 || *org.Longitude < -180 || *org.Longitude > 180) {
		return fmt.Errorf("%w: coordinates out of range", ErrInvalidOrganization)
	}

	org.OrganizationCI = text.Fold(org.Organization)
	org.DescriptionCI = text.Fold(org.Description)
	org.LocationCI = text.Fold(org.Location)
	return nil
}

// stamp sets both audit timestamps for a new record.
func stamp(org *models.Organization) {
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
}
