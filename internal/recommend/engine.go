// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend ranks a crop catalog for one farmer, persists the top
// results as a RecommendationBatch and serves the latest batch back.
//
// Every run is computed from scratch from the current farmer profile and
// catalog; the engine never reads its previous output while scoring.
package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/crop-engine/internal/observability"
	"github.com/pdiddy/crop-engine/internal/scoring"
	"github.com/pdiddy/crop-engine/pkg/types"
)

// MaxRecommendations caps the number of crops kept per batch.
const MaxRecommendations = 5

// Publisher announces a persisted batch to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, batch types.RecommendationBatch) error
}

// Engine scores, ranks and stores crop recommendations. It holds no state
// between runs and is safe for concurrent use.
type Engine struct {
	store     Store
	publisher Publisher
	weights   scoring.Weights
	workers   int
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an Engine persisting to store. A nil logger discards output
// and nil metrics are replaced by an unregistered set.
func New(store Store, cfg types.EngineConfig, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Engine{
		store:   store,
		weights: scoring.DefaultWeights(),
		workers: cfg.Workers,
		clock:   clockwork.NewRealClock(),
		logger:  logger,
		metrics: metrics,
	}
}

// SetPublisher attaches a publisher notified after each successful save.
func (e *Engine) SetPublisher(p Publisher) {
	e.publisher = p
}

// SetClock swaps the time source used for CreatedAt. Pass nil to reset to
// real time.
func (e *Engine) SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	e.clock = c
}

// Generate scores every crop in catalog for farmer, keeps the top
// MaxRecommendations by CSI and saves them as a new batch.
//
// It fails with *types.InvalidProfileError for a malformed farmer or crop,
// ErrEmptyCatalog for an empty catalog, and *StoreWriteError when the store
// rejects the batch. Nothing is persisted on failure.
func (e *Engine) Generate(ctx context.Context, farmer types.FarmerProfile, catalog []types.CropProfile) (types.RecommendationBatch, error) {
	start := e.clock.Now()

	batch, err := e.generate(ctx, farmer, catalog)

	outcome := outcomeOf(err)
	e.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	e.metrics.RunDuration.Observe(e.clock.Since(start).Seconds())
	if err != nil {
		e.logger.Warn("recommendation run failed",
			"farmer_id", farmer.ID, "outcome", outcome, "error", err)
		return types.RecommendationBatch{}, err
	}

	if len(batch.Crops) > 0 {
		e.metrics.TopCSI.Observe(batch.Crops[0].CSI)
	}
	e.logger.Info("recommendation run complete",
		"farmer_id", batch.FarmerID, "catalog_size", len(catalog), "kept", len(batch.Crops))

	e.publish(ctx, batch)
	return batch, nil
}

func (e *Engine) generate(ctx context.Context, farmer types.FarmerProfile, catalog []types.CropProfile) (types.RecommendationBatch, error) {
	if err := farmer.Validate(); err != nil {
		return types.RecommendationBatch{}, err
	}
	if err := validateCatalog(catalog); err != nil {
		return types.RecommendationBatch{}, err
	}

	scored, err := e.scoreAll(ctx, farmer, catalog)
	if err != nil {
		return types.RecommendationBatch{}, err
	}
	e.metrics.CropsScored.Add(float64(len(scored)))

	batch := types.RecommendationBatch{
		FarmerID:  farmer.ID,
		Crops:     rank(scored),
		CreatedAt: e.clock.Now().UTC(),
	}

	if err := ctx.Err(); err != nil {
		return types.RecommendationBatch{}, err
	}
	if err := e.store.Save(ctx, batch); err != nil {
		return types.RecommendationBatch{}, &StoreWriteError{FarmerID: farmer.ID, Err: err}
	}
	return batch, nil
}

// scoreAll returns one ScoredCrop per catalog entry, in catalog order.
func (e *Engine) scoreAll(ctx context.Context, farmer types.FarmerProfile, catalog []types.CropProfile) ([]types.ScoredCrop, error) {
	results := make([]types.ScoredCrop, len(catalog))
	score := func(i int) {
		b := scoring.Score(e.weights, farmer, catalog[i])
		results[i] = types.ScoredCrop{
			CropID:  catalog[i].ID,
			CSI:     b.CSI,
			Reasons: scoring.Reasons(b.Tier, catalog[i]),
		}
	}

	if e.workers <= 1 {
		for i := range catalog {
			score(i)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range catalog {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// rank sorts by descending CSI, keeping catalog order among ties, and
// truncates to MaxRecommendations.
func rank(scored []types.ScoredCrop) []types.ScoredCrop {
	slices.SortStableFunc(scored, func(a, b types.ScoredCrop) int {
		return cmp.Compare(b.CSI, a.CSI)
	})
	n := min(len(scored), MaxRecommendations)
	return slices.Clone(scored[:n])
}

func (e *Engine) publish(ctx context.Context, batch types.RecommendationBatch) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, batch); err != nil {
		e.metrics.PublishErrors.Inc()
		e.logger.Error("publishing recommendations failed",
			"farmer_id", batch.FarmerID, "error", err)
	}
}

// Explanation is the full factor breakdown of one crop for one farmer.
type Explanation struct {
	CropID    string            `json:"crop_id" yaml:"crop_id"`
	Name      string            `json:"name" yaml:"name"`
	Breakdown scoring.Breakdown `json:"breakdown" yaml:"breakdown"`
	Reasons   []string          `json:"reasons" yaml:"reasons"`
}

// Explain scores the whole catalog in rank order without truncating or
// persisting anything.
func (e *Engine) Explain(farmer types.FarmerProfile, catalog []types.CropProfile) ([]Explanation, error) {
	if err := farmer.Validate(); err != nil {
		return nil, err
	}
	if err := validateCatalog(catalog); err != nil {
		return nil, err
	}

	out := make([]Explanation, len(catalog))
	for i, c := range catalog {
		b := scoring.Score(e.weights, farmer, c)
		out[i] = Explanation{CropID: c.ID, Name: c.Name, Breakdown: b, Reasons: scoring.Reasons(b.Tier, c)}
	}
	slices.SortStableFunc(out, func(a, b Explanation) int {
		return cmp.Compare(b.Breakdown.CSI, a.Breakdown.CSI)
	})
	return out, nil
}

// Latest returns the farmer's most recent batch from the store. An empty
// farmerID is never found.
func (e *Engine) Latest(ctx context.Context, farmerID string) (types.RecommendationBatch, bool, error) {
	if farmerID == "" {
		return types.RecommendationBatch{}, false, nil
	}
	batch, ok, err := e.store.Latest(ctx, farmerID)
	if err != nil {
		return types.RecommendationBatch{}, false, fmt.Errorf("reading latest recommendations for farmer %s: %w", farmerID, err)
	}
	return batch, ok, nil
}

// LatestDetailed returns the most recent batch with each crop joined to its
// entry in catalog. Crops missing from catalog keep a nil Crop.
func (e *Engine) LatestDetailed(ctx context.Context, farmerID string, catalog []types.CropProfile) (types.DetailedBatch, bool, error) {
	batch, ok, err := e.Latest(ctx, farmerID)
	if err != nil || !ok {
		return types.DetailedBatch{}, ok, err
	}

	byID := make(map[string]types.CropProfile, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
	}

	detailed := types.DetailedBatch{
		FarmerID:  batch.FarmerID,
		Crops:     make([]types.DetailedCrop, len(batch.Crops)),
		CreatedAt: batch.CreatedAt,
	}
	for i, sc := range batch.Crops {
		detailed.Crops[i].ScoredCrop = sc
		if c, found := byID[sc.CropID]; found {
			detailed.Crops[i].Crop = &c
		}
	}
	return detailed, true, nil
}

func validateCatalog(catalog []types.CropProfile) error {
	if len(catalog) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(catalog))
	for _, c := range catalog {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.ID]; dup {
			return &types.InvalidProfileError{Subject: "crop " + c.ID, Field: "id", Reason: "is duplicated in the catalog"}
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

func outcomeOf(err error) string {
	var (
		ipe *types.InvalidProfileError
		swe *StoreWriteError
	)
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.As(err, &ipe):
		return observability.OutcomeInvalidProfile
	case errors.Is(err, ErrEmptyCatalog):
		return observability.OutcomeEmptyCatalog
	case errors.As(err, &swe):
		return observability.OutcomeStoreError
	default:
		return observability.OutcomeCanceled
	}
}
