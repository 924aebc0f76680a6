// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/crop-engine/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes recommendation history to <dir>/export.yaml and
// returns the path. An empty farmerID exports every farmer.
func (s *Store) ExportYAML(ctx context.Context, farmerID string) (string, error) {
	batches, err := s.exportBatches(ctx, farmerID)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(batches)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes recommendation history to <dir>/export.json and
// returns the path. An empty farmerID exports every farmer.
func (s *Store) ExportJSON(ctx context.Context, farmerID string) (string, error) {
	batches, err := s.exportBatches(ctx, farmerID)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(batches, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportBatches(ctx context.Context, farmerID string) ([]types.RecommendationBatch, error) {
	batches, err := s.queryBatches(ctx, farmerID, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if batches == nil {
		batches = []types.RecommendationBatch{}
	}
	return batches, nil
}
