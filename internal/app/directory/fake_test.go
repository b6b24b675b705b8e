package directory

import (
	"context"
	"errors"
	"sync"

	organizationstore "github.com/dalemusser/ecomap/internal/app/store/organizations"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/dalemusser/ecomap/internal/testutil"
)

var errStoreDown = errors.New("connection refused")

// fakeBackend serves a fixed record set, or fails every call when err is set.
type fakeBackend struct {
	mu      sync.Mutex
	orgs    []models.Organization
	err     error
	catsErr error
	calls   map[string]int
}

var _ organizationstore.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{orgs: testutil.SampleWithIDs(), calls: map[string]int{}}
}

func (f *fakeBackend) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.err
}

func (f *fakeBackend) List(ctx context.Context) ([]models.Organization, error) {
	if err := f.hit("list"); err != nil {
		return nil, err
	}
	return append([]models.Organization{}, f.orgs...), nil
}

func (f *fakeBackend) ListByCategory(ctx context.Context, category string) ([]models.Organization, error) {
	if err := f.hit("list_by_category"); err != nil {
		return nil, err
	}
	return Filter(f.orgs, Criteria{Categories: []string{category}}), nil
}

func (f *fakeBackend) Search(ctx context.Context, q string) ([]models.Organization, error) {
	if err := f.hit("search"); err != nil {
		return nil, err
	}
	return Filter(f.orgs, Criteria{Query: q}), nil
}

func (f *fakeBackend) DistinctCategories(ctx context.Context) ([]string, error) {
	if err := f.hit("categories"); err != nil {
		return nil, err
	}
	if f.catsErr != nil {
		return nil, f.catsErr
	}
	return []string{"Disaster Response", "Fiscal Sponsor", "Mutual Aid Network"}, nil
}

func (f *fakeBackend) GetByID(ctx context.Context, id string) (models.Organization, error) {
	if err := f.hit("get"); err != nil {
		return models.Organization{}, err
	}
	for _, o := range f.orgs {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Organization{}, organizationstore.ErrNotFound
}

func (f *fakeBackend) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if err := f.hit("create"); err != nil {
		return models.Organization{}, err
	}
	org.ID = "new"
	f.orgs = append(f.orgs, org)
	return org, nil
}

func (f *fakeBackend) Update(ctx context.Context, id string, patch models.OrganizationPatch) (models.Organization, error) {
	if err := f.hit("update"); err != nil {
		return models.Organization{}, err
	}
	for i := range f.orgs {
		if f.orgs[i].ID == id {
			patch.Apply(&f.orgs[i])
			return f.orgs[i], nil
		}
	}
	return models.Organization{}, organizationstore.ErrNotFound
}

func (f *fakeBackend) Delete(ctx context.Context, id string) (int64, error) {
	if err := f.hit("delete"); err != nil {
		return 0, err
	}
	for i := range f.orgs {
		if f.orgs[i].ID == id {
			f.orgs = append(f.orgs[:i], f.orgs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeBackend) Ping(ctx context.Context) error  { return f.hit("ping") }
func (f *fakeBackend) Close(ctx context.Context) error { return nil }
