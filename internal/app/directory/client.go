// Package directory holds the in-process core of the organization
// directory: the degrading store client, the catalog snapshot loaded at
// startup, the filter engine, and the per-request view state.
package directory

import (
	"context"
	"time"

	organizationstore "github.com/dalemusser/ecomap/internal/app/store/organizations"
	"github.com/dalemusser/ecomap/internal/app/system/metrics"
	"github.com/dalemusser/ecomap/internal/app/system/timeouts"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"go.uber.org/zap"
)

// Client wraps a store backend with the directory's failure contract:
// every error is logged and counted, then surfaced as an empty result,
// nil, or false. Callers never see store errors.
type Client struct {
	store   organizationstore.Backend
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewClient(store organizationstore.Backend, log *zap.Logger, m *metrics.Collector) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{store: store, log: log, metrics: m}
}

// FetchAll returns every organization, or an empty slice on failure.
func (c *Client) FetchAll(ctx context.Context) []models.Organization {
	orgs, _ := c.fetchAll(ctx)
	return orgs
}

// FetchByCategory returns the organizations in one category.
func (c *Client) FetchByCategory(ctx context.Context, category string) []models.Organization {
	var orgs []models.Organization
	err := c.do(ctx, "fetch_by_category", timeouts.Read(), func(ctx context.Context) (err error) {
		orgs, err = c.store.ListByCategory(ctx, category)
		return err
	}, zap.String("category", category))
	if err != nil {
		return []models.Organization{}
	}
	return orgs
}

// Search returns organizations whose name, description, or location
// contains q, ignoring case.
func (c *Client) Search(ctx context.Context, q string) []models.Organization {
	var orgs []models.Organization
	err := c.do(ctx, "search", timeouts.Read(), func(ctx context.Context) (err error) {
		orgs, err = c.store.Search(ctx, q)
		return err
	}, zap.String("query", q))
	if err != nil {
		return []models.Organization{}
	}
	return orgs
}

// FetchDistinctCategories returns the sorted set of non-empty categories.
func (c *Client) FetchDistinctCategories(ctx context.Context) []string {
	cats, _ := c.fetchCategories(ctx)
	return cats
}

// Insert stores org and returns the created record, or nil on failure.
func (c *Client) Insert(ctx context.Context, org models.Organization) *models.Organization {
	var created models.Organization
	err := c.do(ctx, "insert", timeouts.Write(), func(ctx context.Context) (err error) {
		created, err = c.store.Create(ctx, org)
		return err
	}, zap.String("organization", org.Organization))
	if err != nil {
		return nil
	}
	return &created
}

// Update applies patch to the record with id and returns the result, or
// nil on failure.
func (c *Client) Update(ctx context.Context, id string, patch models.OrganizationPatch) *models.Organization {
	var updated models.Organization
	err := c.do(ctx, "update", timeouts.Write(), func(ctx context.Context) (err error) {
		updated, err = c.store.Update(ctx, id, patch)
		return err
	}, zap.String("id", id))
	if err != nil {
		return nil
	}
	return &updated
}

// Delete reports whether a record with id was removed.
func (c *Client) Delete(ctx context.Context, id string) bool {
	var n int64
	err := c.do(ctx, "delete", timeouts.Write(), func(ctx context.Context) (err error) {
		n, err = c.store.Delete(ctx, id)
		return err
	}, zap.String("id", id))
	return err == nil && n > 0
}

func (c *Client) fetchAll(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	err := c.do(ctx, "fetch_all", timeouts.Read(), func(ctx context.Context) (err error) {
		orgs, err = c.store.List(ctx)
		return err
	})
	if err != nil || orgs == nil {
		return []models.Organization{}, err
	}
	return orgs, nil
}

func (c *Client) fetchCategories(ctx context.Context) ([]string, error) {
	var cats []string
	err := c.do(ctx, "fetch_distinct_categories", timeouts.Read(), func(ctx context.Context) (err error) {
		cats, err = c.store.DistinctCategories(ctx)
		return err
	})
	if err != nil || cats == nil {
		return []string{}, err
	}
	return cats, nil
}

// do runs one store call under a deadline, then logs and counts it.
func (c *Client) do(ctx context.Context, op string, timeout time.Duration, fn func(context.Context) error, fields ...zap.Field) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeout, c.log, op)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	c.metrics.ObserveStoreOp(op, err, time.Since(start))
	if err != nil {
		c.log.Error("record store "+op+" failed", append(fields, zap.String("operation", op), zap.Error(err))...)
	}
	return err
}
