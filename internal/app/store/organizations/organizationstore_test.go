package organizationstore_test

import (
	"context"
	"errors"
	"testing"

	organizationstore "github.com/dalemusser/ecomap/internal/app/store/organizations"
	"github.com/dalemusser/ecomap/internal/app/system/indexes"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/dalemusser/ecomap/internal/testutil"
	"go.uber.org/zap"
)

// Each backend runs the same behavioral checks.
type opener func(t *testing.T, ctx context.Context) organizationstore.Backend

func openSQLite(t *testing.T, ctx context.Context) organizationstore.Backend {
	t.Helper()
	s, err := organizationstore.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func openPostgres(t *testing.T, ctx context.Context) organizationstore.Backend {
	t.Helper()
	s, err := organizationstore.OpenPostgres(ctx, testutil.PostgresDSN(t))
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	if _, err := s.DB().ExecContext(ctx, "DELETE FROM organizations"); err != nil {
		t.Fatalf("reset organizations: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func openMongo(t *testing.T, ctx context.Context) organizationstore.Backend {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return organizationstore.New(db)
}

func backends() map[string]opener {
	return map[string]opener{
		"sqlite":   openSQLite,
		"postgres": openPostgres,
		"mongo":    openMongo,
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, ctx context.Context, s organizationstore.Backend)) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := testutil.TestContext()
			defer cancel()
			fn(t, ctx, open(t, ctx))
		})
	}
}

func names(orgs []models.Organization) []string {
	out := make([]string, len(orgs))
	for i, o := range orgs {
		out[i] = o.Organization
	}
	return out
}

func TestStore_Create(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		org := testutil.SampleOrganizations()[3]
		created, err := s.Create(ctx, org)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID == "" {
			t.Error("expected ID to be assigned")
		}
		if created.OrganizationCI == "" || created.LocationCI == "" || created.DescriptionCI == "" {
			t.Error("expected folded fields to be set")
		}
		if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}

		got, err := s.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Organization != "Tides Foundation" || got.Scope != models.ScopeNational {
			t.Errorf("unexpected record: %+v", got)
		}
		if !got.HasCoordinates() || *got.Latitude != 37.7749 || *got.Longitude != -122.4194 {
			t.Errorf("coordinates not preserved: %v %v", got.Latitude, got.Longitude)
		}
	})
}

func TestStore_Create_WithoutCoordinates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		created, err := s.Create(ctx, models.Organization{
			Organization: "Ungeocoded Pantry",
			Location:     "Somewhere",
			Scope:        models.ScopeLocal,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		got, err := s.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.HasCoordinates() {
			t.Errorf("expected no coordinates, got %v,%v", *got.Latitude, *got.Longitude)
		}
		if got.Position() != models.FallbackCoordinate {
			t.Errorf("Position = %v, want fallback", got.Position())
		}
	})
}

func TestStore_Create_DuplicateName(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		org := testutil.SampleOrganizations()[0]
		if _, err := s.Create(ctx, org); err != nil {
			t.Fatalf("first Create failed: %v", err)
		}
		org.Organization = "  MUTUAL AID LA NETWORK (MALAN) "
		_, err := s.Create(ctx, org)
		if !errors.Is(err, organizationstore.ErrDuplicateOrganization) {
			t.Errorf("expected ErrDuplicateOrganization, got %v", err)
		}
	})
}

func TestStore_Create_Validation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		_, err := s.Create(ctx, models.Organization{Location: "Here", Scope: models.ScopeLocal})
		if !errors.Is(err, organizationstore.ErrInvalidOrganization) {
			t.Errorf("missing name: got %v", err)
		}

		_, err = s.Create(ctx, models.Organization{Organization: "X", Location: "Here", Scope: "Planetary"})
		if !errors.Is(err, organizationstore.ErrInvalidScope) {
			t.Errorf("unknown scope: got %v", err)
		}

		_, err = s.Create(ctx, models.Organization{
			Organization: "Y", Location: "Here", Scope: models.ScopeLocal,
			Latitude: testutil.Float(10),
		})
		if !errors.Is(err, organizationstore.ErrInvalidOrganization) {
			t.Errorf("half coordinates: got %v", err)
		}

		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("invalid records were stored: %v", names(all))
		}
	})
}

func TestStore_Create_SanitizesAndNormalizesScope(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		created, err := s.Create(ctx, models.Organization{
			Organization: "<b>Food Not Bombs</b>",
			Location:     " Portland, OR ",
			Description:  `Shares <script>alert(1)</script>free meals`,
			Scope:        "international",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.Organization != "Food Not Bombs" {
			t.Errorf("Organization = %q", created.Organization)
		}
		if created.Location != "Portland, OR" {
			t.Errorf("Location = %q", created.Location)
		}
		if created.Description != "Shares free meals" {
			t.Errorf("Description = %q", created.Description)
		}
		if created.Scope != models.ScopeInternational {
			t.Errorf("Scope = %q", created.Scope)
		}
	})
}

func TestStore_List_OrderedByName(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		testutil.SeedSample(t, ctx, s)
		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		want := []string{
			"Bay Area Mutual Aid Network",
			"Community Fridge Collective",
			"Mutual Aid LA Network (MALAN)",
			"Tides Foundation",
			"Vermont Community Response",
		}
		got := names(all)
		if len(got) != len(want) {
			t.Fatalf("List returned %v", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
			}
		}
	})
}

func TestStore_Search(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		testutil.SeedSample(t, ctx, s)

		cases := map[string]int{
			"mutual":     3,
			"MUTUAL":     3,
			"  mutual  ": 3,
			"francisco":  2,
			"":           5,
			"100%":       0,
			"a_b":        0,
			"zzz":        0,
		}
		for q, want := range cases {
			got, err := s.Search(ctx, q)
			if err != nil {
				t.Fatalf("Search(%q) failed: %v", q, err)
			}
			if len(got) != want {
				t.Errorf("Search(%q) = %v, want %d results", q, names(got), want)
			}
		}
	})
}

func TestStore_ListByCategory(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		testutil.SeedSample(t, ctx, s)

		got, err := s.ListByCategory(ctx, "Mutual Aid Network")
		if err != nil {
			t.Fatalf("ListByCategory failed: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %v, want 3 records", names(got))
		}

		got, err = s.ListByCategory(ctx, "Nope")
		if err != nil {
			t.Fatalf("ListByCategory failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})
}

func TestStore_DistinctCategories(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		testutil.SeedSample(t, ctx, s)
		if _, err := s.Create(ctx, models.Organization{Organization: "No Category", Location: "X", Scope: models.ScopeLocal}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := s.DistinctCategories(ctx)
		if err != nil {
			t.Fatalf("DistinctCategories failed: %v", err)
		}
		want := []string{"Disaster Response", "Fiscal Sponsor", "Mutual Aid Network"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
			}
		}
	})
}

func TestStore_GetByID_NotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		_, err := s.GetByID(ctx, "does-not-exist")
		if !errors.Is(err, organizationstore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_Update(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		seeded := testutil.SeedSample(t, ctx, s)
		target := seeded[2]

		updated, err := s.Update(ctx, target.ID, models.OrganizationPatch{
			Description: testutil.String("Flood recovery and farm support."),
			Latitude:    testutil.Float(44.5),
			Longitude:   testutil.Float(-73.2),
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Description != "Flood recovery and farm support." {
			t.Errorf("Description = %q", updated.Description)
		}
		if updated.UpdatedAt.Before(updated.CreatedAt) {
			t.Error("UpdatedAt should not precede CreatedAt")
		}

		got, err := s.GetByID(ctx, target.ID)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Organization != target.Organization {
			t.Errorf("unpatched field changed: %q", got.Organization)
		}
		if *got.Latitude != 44.5 || *got.Longitude != -73.2 {
			t.Errorf("coordinates = %v,%v", *got.Latitude, *got.Longitude)
		}
		hits, err := s.Search(ctx, "farm support")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(hits) != 1 || hits[0].ID != target.ID {
			t.Errorf("folded description not refreshed: %v", names(hits))
		}
	})
}

func TestStore_Update_Errors(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		seeded := testutil.SeedSample(t, ctx, s)

		_, err := s.Update(ctx, "does-not-exist", models.OrganizationPatch{Notes: testutil.String("x")})
		if !errors.Is(err, organizationstore.ErrNotFound) {
			t.Errorf("missing id: got %v", err)
		}

		_, err = s.Update(ctx, seeded[0].ID, models.OrganizationPatch{Organization: testutil.String("tides foundation")})
		if !errors.Is(err, organizationstore.ErrDuplicateOrganization) {
			t.Errorf("rename onto existing: got %v", err)
		}

		bad := models.Scope("Galactic")
		_, err = s.Update(ctx, seeded[0].ID, models.OrganizationPatch{Scope: &bad})
		if !errors.Is(err, organizationstore.ErrInvalidScope) {
			t.Errorf("bad scope: got %v", err)
		}
	})
}

func TestStore_Delete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		seeded := testutil.SeedSample(t, ctx, s)

		n, err := s.Delete(ctx, seeded[0].ID)
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 deleted, got %d", n)
		}

		n, err = s.Delete(ctx, seeded[0].ID)
		if err != nil {
			t.Fatalf("second Delete failed: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 deleted, got %d", n)
		}

		all, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 4 {
			t.Errorf("expected 4 remaining, got %d", len(all))
		}
	})
}

func TestStore_Ping(t *testing.T) {
	forEachBackend(t, func(t *testing.T, ctx context.Context, s organizationstore.Backend) {
		if err := s.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})
}
