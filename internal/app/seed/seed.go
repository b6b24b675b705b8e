// Package seed loads directory records from YAML and inserts them into a
// store backend.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	organizationstore "github.com/dalemusser/ecomap/internal/app/store/organizations"
	"github.com/dalemusser/ecomap/internal/domain/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

type file struct {
	Organizations []models.Organization `yaml:"organizations"`
}

// Parse decodes a seed document. Unknown keys are rejected so typos in
// hand-edited files surface early.
func Parse(r io.Reader) ([]models.Organization, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed yaml: %w", err)
	}
	return f.Organizations, nil
}

// ParseFile reads a seed document from disk.
func ParseFile(path string) ([]models.Organization, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(bytes.NewReader(b))
}

// Sample returns the bundled sample organizations.
func Sample() []models.Organization {
	orgs, err := Parse(bytes.NewReader(sampleYAML))
	if err != nil {
		panic(fmt.Sprintf("seed: bundled sample.yaml: %v", err))
	}
	return orgs
}

// Result summarizes a seed run.
type Result struct {
	Inserted   int
	Duplicates int
	Failed     int
}

// Run inserts each organization, logging and counting failures instead of
// stopping. Records whose name already exists are counted as duplicates.
func Run(ctx context.Context, store organizationstore.Backend, orgs []models.Organization, logger *zap.Logger) Result {
	var res Result
	for _, org := range orgs {
		_, err := store.Create(ctx, org)
		switch {
		case err == nil:
			res.Inserted++
			logger.Info("seeded organization", zap.String("organization", org.Organization))
		case errors.Is(err, organizationstore.ErrDuplicateOrganization):
			res.Duplicates++
			logger.Info("organization already present", zap.String("organization", org.Organization))
		default:
			res.Failed++
			logger.Error("seed organization failed", zap.String("organization", org.Organization), zap.Error(err))
		}
	}
	return res
}
