// Command ecomapctl seeds, checks, and exports the EcoMap record store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dalemusser/ecomap/internal/app/export"
	"github.com/dalemusser/ecomap/internal/app/seed"
	organizationstore "github.com/dalemusser/ecomap/internal/app/store/organizations"
	"github.com/dalemusser/ecomap/internal/app/system/timeouts"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const usage = `Usage: ecomapctl <command> [flags]

Commands:
  seed     insert the bundled sample organizations (or -file <yaml>)
  check    connect to the store and read the directory
  export   write every organization as CSV (-out <path|s3://bucket/key|->)

Store flags (all commands; defaults come from ECOMAP_* environment variables):
  -backend, -mongo-uri, -mongo-database, -postgres-dsn, -sqlite-path
`

var errUsage = errors.New("usage")

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), os.Args[1:], os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, logger *zap.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "seed":
		return runSeed(ctx, args[1:], stdout, logger)
	case "check":
		return runCheck(ctx, args[1:], stdout, logger)
	case "export":
		return runExport(ctx, args[1:], stdout, logger)
	case "help", "--help", "-h":
		fmt.Fprint(stdout, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// storeFlags registers the connection flags shared by every command.
func storeFlags(fs *flag.FlagSet) *organizationstore.Options {
	o := &organizationstore.Options{}
	fs.StringVar(&o.Backend, "backend", env("ECOMAP_STORE_BACKEND", organizationstore.BackendSQLite), "store backend: mongo, postgres, or sqlite")
	fs.StringVar(&o.MongoURI, "mongo-uri", env("ECOMAP_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	fs.StringVar(&o.MongoDatabase, "mongo-database", env("ECOMAP_MONGO_DATABASE", "ecomap"), "MongoDB database name")
	fs.StringVar(&o.PostgresDSN, "postgres-dsn", env("ECOMAP_POSTGRES_DSN", ""), "Postgres connection string")
	fs.StringVar(&o.SQLitePath, "sqlite-path", env("ECOMAP_SQLITE_PATH", "data/ecomap.db"), "SQLite database file")
	return o
}

func openStore(ctx context.Context, o *organizationstore.Options, logger *zap.Logger) (organizationstore.Backend, error) {
	o.Backend = strings.ToLower(strings.TrimSpace(o.Backend))
	cctx, cancel := context.WithTimeout(ctx, timeouts.Load())
	defer cancel()
	return organizationstore.Open(cctx, *o, logger)
}

func runSeed(ctx context.Context, args []string, stdout io.Writer, logger *zap.Logger) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	opts := storeFlags(fs)
	file := fs.String("file", "", "YAML seed file (default: bundled sample)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var orgs []models.Organization
	if *file != "" {
		parsed, err := seed.ParseFile(*file)
		if err != nil {
			return err
		}
		orgs = parsed
	} else {
		orgs = seed.Sample()
	}

	store, err := openStore(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	sctx, cancel := context.WithTimeout(ctx, timeouts.Batch())
	defer cancel()
	res := seed.Run(sctx, store, orgs, logger)

	fmt.Fprintf(stdout, "seeded %d organizations (%d already present, %d failed)\n", res.Inserted, res.Duplicates, res.Failed)
	if res.Failed > 0 {
		return fmt.Errorf("%d organizations failed to insert", res.Failed)
	}
	return nil
}

func runCheck(ctx context.Context, args []string, stdout io.Writer, logger *zap.Logger) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	opts := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	pctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := store.Ping(pctx); err != nil {
		return fmt.Errorf("ping %s: %w", opts.Backend, err)
	}

	rctx, cancel := context.WithTimeout(ctx, timeouts.Read())
	defer cancel()
	orgs, err := store.List(rctx)
	if err != nil {
		return fmt.Errorf("read organizations: %w", err)
	}

	fmt.Fprintf(stdout, "ok: %s backend reachable, %d organizations\n", opts.Backend, len(orgs))
	if len(orgs) > 0 {
		fmt.Fprintf(stdout, "first: %s (%s)\n", orgs[0].Organization, orgs[0].Location)
	}
	return nil
}

func runExport(ctx context.Context, args []string, stdout io.Writer, logger *zap.Logger) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	opts := storeFlags(fs)
	out := fs.String("out", "-", "destination: a file path, s3://bucket/key, or - for stdout")
	s3cfg := export.S3Config{}
	fs.StringVar(&s3cfg.Region, "s3-region", env("AWS_REGION", "us-east-1"), "S3 region")
	fs.StringVar(&s3cfg.Endpoint, "s3-endpoint", env("ECOMAP_S3_ENDPOINT", ""), "S3-compatible endpoint (MinIO)")
	fs.BoolVar(&s3cfg.PathStyle, "s3-path-style", false, "use path-style S3 addressing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dest, err := export.ParseDestination(*out)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	e := &export.Exporter{Store: store, Stdout: stdout, Log: logger}
	if dest.IsS3() {
		u, err := export.NewUploader(ctx, s3cfg)
		if err != nil {
			return err
		}
		e.Uploader = u
	}

	ectx, cancel := context.WithTimeout(ctx, timeouts.Batch())
	defer cancel()
	n, err := e.Run(ectx, dest)
	if err != nil {
		return err
	}
	if dest.Path != "-" {
		fmt.Fprintf(stdout, "exported %d organizations to %s\n", n, dest)
	}
	return nil
}
