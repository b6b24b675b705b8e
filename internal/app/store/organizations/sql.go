// internal/app/store/organizations/sql.go
package organizationstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures the differences between the SQL engines the directory
// runs on.
type Dialect struct {
	Name          string
	Driver        string
	TimestampType string
	placeholder   func(n int) string
	isDup         func(err error) bool
	timestamp     func(t time.Time) any
}

var Postgres = Dialect{
	Name:          "postgres",
	Driver:        "pgx",
	TimestampType: "TIMESTAMPTZ",
	placeholder:   func(n int) string { return "$" + strconv.Itoa(n) },
	isDup: func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == "23505"
	},
	timestamp: func(t time.Time) any { return t },
}

var SQLite = Dialect{
	Name:          "sqlite",
	Driver:        "sqlite",
	TimestampType: "TEXT",
	placeholder:   func(int) string { return "?" },
	isDup: func(err error) bool {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
	},
	timestamp: func(t time.Time) any { return t.Format(time.RFC3339Nano) },
}

const columns = `id, organization, organization_ci, category, type, location, location_ci,
	description, description_ci, services, contact, website, scope, founded, tier,
	confidence_level, notes, latitude, longitude, created_at, updated_at`

// SQLStore is the database/sql backend used for both Postgres and SQLite.
type SQLStore struct {
	db *sql.DB
	d  Dialect
}

// OpenPostgres connects to Postgres through the pgx stdlib driver and
// ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	return open(ctx, Postgres, dsn)
}

// OpenSQLite opens (creating if needed) the SQLite file at path. Use
// ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if path == "" {
		path = "ecomap.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	return open(ctx, SQLite, path)
}

func open(ctx context.Context, d Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}
	if d.Name == SQLite.Name {
		// One connection keeps an in-memory database shared and serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}
	s := &SQLStore{db: db, d: d}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Dialect reports which engine the store talks to.
func (s *SQLStore) Dialect() Dialect { return s.d }

// EnsureSchema creates the organizations table and its indexes if missing.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS organizations (
			id TEXT PRIMARY KEY,
			organization TEXT NOT NULL,
			organization_ci TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL,
			location_ci TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			description_ci TEXT NOT NULL DEFAULT '',
			services TEXT NOT NULL DEFAULT '',
			contact TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			scope TEXT NOT NULL,
			founded TEXT NOT NULL DEFAULT '',
			tier TEXT NOT NULL DEFAULT '',
			confidence_level TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			created_at ` + s.d.TimestampType + ` NOT NULL,
			updated_at ` + s.d.TimestampType + ` NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_organizations_organization_ci ON organizations (organization_ci)`,
		`CREATE INDEX IF NOT EXISTS idx_organizations_category ON organizations (category)`,
		`CREATE INDEX IF NOT EXISTS idx_organizations_scope ON organizations (scope)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s schema: %w", s.d.Name, err)
		}
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) ([]models.Organization, error) {
	return s.query(ctx, "", nil)
}

func (s *SQLStore) ListByCategory(ctx context.Context, category string) ([]models.Organization, error) {
	return s.query(ctx, "WHERE category = "+s.d.placeholder(1), []any{category})
}

func (s *SQLStore) Search(ctx context.Context, q string) ([]models.Organization, error) {
	folded := text.Fold(strings.TrimSpace(q))
	if folded == "" {
		return s.List(ctx)
	}
	pattern := "%" + escapeLike(folded) + "%"
	where := fmt.Sprintf(
		`WHERE organization_ci LIKE %s ESCAPE '\' OR description_ci LIKE %s ESCAPE '\' OR location_ci LIKE %s ESCAPE '\'`,
		s.d.placeholder(1), s.d.placeholder(2), s.d.placeholder(3),
	)
	return s.query(ctx, where, []any{pattern, pattern, pattern})
}

func (s *SQLStore) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM organizations WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetByID(ctx context.Context, id string) (models.Organization, error) {
	orgs, err := s.query(ctx, "WHERE id = "+s.d.placeholder(1), []any{id})
	if err != nil {
		return models.Organization{}, err
	}
	if len(orgs) == 0 {
		return models.Organization{}, ErrNotFound
	}
	return orgs[0], nil
}

func (s *SQLStore) Create(ctx context.Context, org models.Organization) (models.Organization, error) {
	if err := prepare(&org); err != nil {
		return models.Organization{}, err
	}
	org.ID = uuid.NewString()
	stamp(&org)

	ph := make([]string, 21)
	for i := range ph {
		ph[i] = s.d.placeholder(i + 1)
	}
	stmt := "INSERT INTO organizations (" + columns + ") VALUES (" + strings.Join(ph, ", ") + ")"
	if _, err := s.db.ExecContext(ctx, stmt, s.args(org)...); err != nil {
		if s.d.isDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, fmt.Errorf("insert organization: %w", err)
	}
	return org, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, patch models.OrganizationPatch) (models.Organization, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Organization{}, err
	}
	patch.Apply(&org)
	if err := prepare(&org); err != nil {
		return models.Organization{}, err
	}
	org.UpdatedAt = time.Now().UTC()

	// Every column but id and created_at, in the order of columns.
	names := strings.Split(strings.Join(strings.Fields(columns), ""), ",")
	args := s.args(org)
	set := make([]string, 0, len(names))
	vals := make([]any, 0, len(names))
	for i, n := range names {
		if n == "id" || n == "created_at" {
			continue
		}
		vals = append(vals, args[i])
		set = append(set, n+" = "+s.d.placeholder(len(vals)))
	}
	vals = append(vals, id)
	stmt := "UPDATE organizations SET " + strings.Join(set, ", ") + " WHERE id = " + s.d.placeholder(len(vals))

	res, err := s.db.ExecContext(ctx, stmt, vals...)
	if err != nil {
		if s.d.isDup(err) {
			return models.Organization{}, ErrDuplicateOrganization
		}
		return models.Organization{}, fmt.Errorf("update organization %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Organization{}, ErrNotFound
	}
	return org, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM organizations WHERE id = "+s.d.placeholder(1), id)
	if err != nil {
		return 0, fmt.Errorf("delete organization %s: %w", id, err)
	}
	return res.RowsAffected()
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close(context.Context) error {
	return s.db.Close()
}

func (s *SQLStore) query(ctx context.Context, where string, args []any) ([]models.Organization, error) {
	stmt := "SELECT " + columns + " FROM organizations " + where + " ORDER BY organization_ci, id"
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select organizations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	orgs := []models.Organization{}
	for rows.Next() {
		var (
			o        models.Organization
			scope    string
			lat, lng sql.NullFloat64
			created  timeValue
			updated  timeValue
		)
		if err := rows.Scan(&o.ID, &o.Organization, &o.OrganizationCI, &o.Category, &o.Type,
			&o.Location, &o.LocationCI, &o.Description, &o.DescriptionCI, &o.Services,
			&o.Contact, &o.Website, &scope, &o.Founded, &o.Tier, &o.ConfidenceLevel, &o.Notes,
			&lat, &lng, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		o.Scope = models.Scope(scope)
		if lat.Valid && lng.Valid {
			o.Latitude, o.Longitude = &lat.Float64, &lng.Float64
		}
		o.CreatedAt, o.UpdatedAt = created.t, updated.t
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return orgs, nil
}

// args returns the insert arguments in the order of columns.
func (s *SQLStore) args(o models.Organization) []any {
	var lat, lng sql.NullFloat64
	if o.HasCoordinates() {
		lat = sql.NullFloat64{Float64: *o.Latitude, Valid: true}
		lng = sql.NullFloat64{Float64: *o.Longitude, Valid: true}
	}
	return []any{
		o.ID, o.Organization, o.OrganizationCI, o.Category, o.Type, o.Location, o.LocationCI,
		o.Description, o.DescriptionCI, o.Services, o.Contact, o.Website, string(o.Scope),
		o.Founded, o.Tier, o.ConfidenceLevel, o.Notes, lat, lng,
		s.d.timestamp(o.CreatedAt), s.d.timestamp(o.UpdatedAt),
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// timeValue scans a timestamp stored natively (Postgres) or as RFC 3339
// text (SQLite).
type timeValue struct{ t time.Time }

func (v *timeValue) Scan(src any) error {
	switch x := src.(type) {
	case time.Time:
		v.t = x.UTC()
	case string:
		return v.parse(x)
	case []byte:
		return v.parse(string(x))
	case nil:
		v.t = time.Time{}
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
	return nil
}

func (v *timeValue) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	v.t = t.UTC()
	return nil
}
