package testutil

import (
	"context"
	"strconv"
	"testing"

	"github.com/dalemusser/ecomap/internal/app/seed"
	"github.com/dalemusser/ecomap/internal/domain/models"
)

// Creator is the slice of a store backend fixtures need.
type Creator interface {
	Create(ctx context.Context, org models.Organization) (models.Organization, error)
}

// SampleOrganizations returns the bundled sample records without IDs.
func SampleOrganizations() []models.Organization {
	return seed.Sample()
}

// SampleWithIDs returns the sample records with stable IDs ("org-1" ...)
// and folded fields unset, as an in-memory record set for pure tests.
func SampleWithIDs() []models.Organization {
	orgs := seed.Sample()
	for i := range orgs {
		orgs[i].ID = "org-" + strconv.Itoa(i+1)
	}
	return orgs
}

// SeedSample inserts the sample records into store and returns them as
// created.
func SeedSample(t *testing.T, ctx context.Context, store Creator) []models.Organization {
	t.Helper()
	var out []models.Organization
	for _, org := range seed.Sample() {
		created, err := store.Create(ctx, org)
		if err != nil {
			t.Fatalf("seed %q: %v", org.Organization, err)
		}
		out = append(out, created)
	}
	return out
}

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// String returns a pointer to s.
func String(s string) *string { return &s }
