package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dalemusser/ecomap/internal/domain/models"
	"go.uber.org/zap"
)

// Lister is the slice of a store backend an export needs.
type Lister interface {
	List(ctx context.Context) ([]models.Organization, error)
}

// Exporter reads every record and writes the CSV to a destination.
type Exporter struct {
	Store    Lister
	Uploader *Uploader // required only for s3 destinations
	Stdout   io.Writer
	Log      *zap.Logger
}

// Run exports all records to dest and returns how many were written.
func (e *Exporter) Run(ctx context.Context, dest Destination) (int, error) {
	orgs, err := e.Store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list organizations: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, orgs); err != nil {
		return 0, err
	}

	switch {
	case dest.IsS3():
		if e.Uploader == nil {
			return 0, fmt.Errorf("no S3 uploader configured for %s", dest)
		}
		if err := e.Uploader.Upload(ctx, dest.Bucket, dest.Key, buf.Bytes()); err != nil {
			return 0, err
		}
	case dest.Path == "-":
		out := e.Stdout
		if out == nil {
			out = os.Stdout
		}
		if _, err := out.Write(buf.Bytes()); err != nil {
			return 0, fmt.Errorf("write stdout: %w", err)
		}
	default:
		if dir := filepath.Dir(dest.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return 0, fmt.Errorf("create dirs: %w", err)
			}
		}
		if err := os.WriteFile(dest.Path, buf.Bytes(), 0o640); err != nil {
			return 0, fmt.Errorf("write %s: %w", dest.Path, err)
		}
	}

	if e.Log != nil {
		e.Log.Info("export complete", zap.String("destination", dest.String()), zap.Int("records", len(orgs)))
	}
	return len(orgs), nil
}
