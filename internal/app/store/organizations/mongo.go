// internal/app/store/organizations/mongo.go
package organizationstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/ecomap/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is the MongoDB backend. Records live in the "organizations"
// collection with a hex ObjectID string as _id.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("organizations")}
}

// Database returns the database the store writes to.
func (s *Store) Database() *mongo.Database { return s.c.Database() }

var byName = options.Find().SetSort(bson.D{{Key: "organization_ci", Value: 1}, {Key: "_id", Value: 1}})

func (s *Store) List(ctx context.Context) ([]models.Organization, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) ListByCategory(ctx context.Context, category string) ([]models.Organization, error) {
	return s.find(ctx, bson.M{"category": category})
}

func (s *Store) Search(ctx context.Context, q string) ([]models.Organization, error) {
	folded := text.Fold(strings.TrimSpace(q))
	if folded == "" {
		return s.List(ctx)
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(folded)}
	return s.find(ctx, bson.M{"$or": []bson.M{
		{"organization_ci": re},
		{"description_ci": re},
		{"location_ci": re},
	}})
}

func (s *Store) DistinctCategories(ctx context.Context) ([]string, error) {
	vals, err := s.c.Distinct(ctx, "category", bson.M{"category": bson.M{"$nin": bson.A{"", nil}}})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Organization, error) {
	var org models.Organization
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Organization{}, ErrNotFound
	}
	if err != nil {
		return models.Organization{}, fmt.Errorf("get organization %s: %w", id, err)
	}
	return org, nil
}

func (s *Store) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if err := prepare(&org); err != nil {
		return models.Organization{}, err
	}
	org.ID = primitive.NewObjectID().Hex()
	stamp(&org)
	if _, err := s.c.InsertOne(ctx, org); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, fmt.Errorf("insert organization: %w", err)
	}
	return org, nil
}

// Update applies patch to the stored record, revalidates the merged
// result, and replaces the document.
func (s *Store) Update(ctx context.Context, id string, patch models.OrganizationPatch) (models.Organization, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Organization{}, err
	}
	patch.Apply(&org)
	if err := prepare(&org); err != nil {
		return models.Organization{}, err
	}
	org.UpdatedAt = time.Now().UTC()

	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": id}, org)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, fmt.Errorf("update organization %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return models.Organization{}, ErrNotFound
	}
	return org, nil
}

// Delete removes an organization by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete organization %s: %w", id, err)
	}
	return res.DeletedCount, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.c.Database().Client().Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.c.Database().Client().Disconnect(ctx)
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Organization, error) {
	cur, err := s.c.Find(ctx, filter, byName)
	if err != nil {
		return nil, fmt.Errorf("find organizations: %w", err)
	}
	defer cur.Close(ctx)
	orgs := []models.Organization{}
	if err := cur.All(ctx, &orgs); err != nil {
		return nil, fmt.Errorf("decode organizations: %w", err)
	}
	return orgs, nil
}
