// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"slices"
	"sync"

	"github.com/pdiddy/crop-engine/pkg/types"
)

// Store persists recommendation batches keyed by farmer. History is
// append-only from the engine's point of view; retention is the store's
// concern.
type Store interface {
	Save(ctx context.Context, batch types.RecommendationBatch) error

	// Latest returns the most recent batch for farmerID. The boolean is
	// false when the farmer has no batches.
	Latest(ctx context.Context, farmerID string) (types.RecommendationBatch, bool, error)
}

// MemoryStore is an in-process Store. It keeps every batch.
type MemoryStore struct {
	mu      sync.RWMutex
	batches map[string][]types.RecommendationBatch
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{batches: make(map[string][]types.RecommendationBatch)}
}

// Save appends a copy of batch to the farmer's history.
func (m *MemoryStore) Save(ctx context.Context, batch types.RecommendationBatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[batch.FarmerID] = append(m.batches[batch.FarmerID], cloneBatch(batch))
	return nil
}

// Latest returns the batch with the newest CreatedAt; among equal
// timestamps the last saved wins.
func (m *MemoryStore) Latest(ctx context.Context, farmerID string) (types.RecommendationBatch, bool, error) {
	if err := ctx.Err(); err != nil {
		return types.RecommendationBatch{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.batches[farmerID]
	if len(history) == 0 {
		return types.RecommendationBatch{}, false, nil
	}
	latest := history[0]
	for _, b := range history[1:] {
		if !b.CreatedAt.Before(latest.CreatedAt) {
			latest = b
		}
	}
	return cloneBatch(latest), true, nil
}

// History returns up to limit batches for farmerID, newest first. A limit
// of zero or less returns all of them.
func (m *MemoryStore) History(ctx context.Context, farmerID string, limit int) ([]types.RecommendationBatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.batches[farmerID]
	out := make([]types.RecommendationBatch, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		out = append(out, cloneBatch(history[i]))
	}
	slices.SortStableFunc(out, func(a, b types.RecommendationBatch) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloneBatch(b types.RecommendationBatch) types.RecommendationBatch {
	crops := make([]types.ScoredCrop, len(b.Crops))
	for i, c := range b.Crops {
		crops[i] = types.ScoredCrop{CropID: c.CropID, CSI: c.CSI, Reasons: slices.Clone(c.Reasons)}
	}
	b.Crops = crops
	return b
}
