package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/acheong08/mavenlicenses/internal/parser"
	"github.com/acheong08/mavenlicenses/internal/pom"
	"github.com/acheong08/mavenlicenses/internal/registry"
	"github.com/acheong08/mavenlicenses/pkg/models"
)

// DescriptorFetcher downloads descriptor documents. *registry.Client satisfies it.
type DescriptorFetcher interface {
	FetchDescriptor(ctx context.Context, url string) (string, error)
}

// Extractor builds fresh dependency records from each dependency's POM
type Extractor struct {
	fetcher DescriptorFetcher
	logger  *zap.Logger
}

// NewExtractor creates a new license extractor
func NewExtractor(fetcher DescriptorFetcher, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{fetcher: fetcher, logger: logger}
}

// Extract fetches and scans the POM of every dependency, in order. The first
// fetch or parse failure aborts the whole extraction.
func (e *Extractor) Extract(ctx context.Context, deps []models.ReconciledDependency) ([]models.DependencyRecord, error) {
	records := make([]models.DependencyRecord, 0, len(deps))
	for _, dep := range deps {
		rec, err := e.extractOne(ctx, dep)
		if err != nil {
			return nil, fmt.Errorf("failed to extract licenses for %s: %w", dep.Entry.Coord, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (e *Extractor) extractOne(ctx context.Context, dep models.ReconciledDependency) (models.DependencyRecord, error) {
	version, err := parser.CoordinateVersion(dep.Entry.Coord)
	if err != nil {
		return models.DependencyRecord{}, err
	}

	pomURL, err := registry.DescriptorURL(dep.Entry.URL)
	if err != nil {
		return models.DependencyRecord{}, err
	}

	text, err := e.fetcher.FetchDescriptor(ctx, pomURL)
	if err != nil {
		return models.DependencyRecord{}, err
	}

	licenses, err := pom.Scan(text)
	if err != nil {
		return models.DependencyRecord{}, fmt.Errorf("%s: %w", pomURL, err)
	}

	e.logger.Debug("extracted licenses",
		zap.Int("index", dep.Index),
		zap.String("artifact", dep.Entry.Coord),
		zap.String("pom", pomURL),
		zap.Int("licenses", len(licenses)))

	return models.DependencyRecord{
		Index:           int32(dep.Index),
		ArtifactName:    dep.Entry.Coord,
		ArtifactVersion: version,
		Licenses:        licenses,
		Origin:          models.OriginUnknown,
	}, nil
}
