package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/observability"
)

const defaultEnrichmentWorkers = 8

// CandidateResolver resolves one external candidate to an internal record.
type CandidateResolver interface {
	Resolve(ctx context.Context, candidate *entities.Candidate) (*entities.Hospital, error)
}

// EnrichmentService fetches candidates from the places directory and joins
// each against the internal hospital dataset. Per-candidate resolution runs
// on a bounded worker pool; the output preserves the provider's candidate
// order regardless of completion order.
type EnrichmentService struct {
	placesProvider providers.PlacesProvider
	resolver       CandidateResolver
	workerCount    int
	metrics        *observability.Metrics
}

// NewEnrichmentService creates a new enrichment service. metrics may be nil.
func NewEnrichmentService(placesProvider providers.PlacesProvider, resolver CandidateResolver, workers int, metrics *observability.Metrics) *EnrichmentService {
	if workers <= 0 {
		workers = defaultEnrichmentWorkers
	}
	return &EnrichmentService{
		placesProvider: placesProvider,
		resolver:       resolver,
		workerCount:    workers,
		metrics:        metrics,
	}
}

// EnrichNearby fetches candidates around the origin and enriches them.
// A places provider failure is fatal for the whole batch.
func (s *EnrichmentService) EnrichNearby(ctx context.Context, lat, lng float64, opts providers.NearbyOptions) ([]*entities.Candidate, *entities.EnrichmentStats, error) {
	candidates, err := s.placesProvider.Nearby(ctx, lat, lng, opts)
	if err != nil {
		return nil, nil, err
	}

	enriched, stats := s.Enrich(ctx, candidates)
	return enriched, stats, nil
}

// Enrich resolves every candidate concurrently and attaches internal data
// to the ones that match. A resolver failure for one candidate degrades it
// to unmatched instead of failing the batch.
func (s *EnrichmentService) Enrich(ctx context.Context, candidates []*entities.Candidate) ([]*entities.Candidate, *entities.EnrichmentStats) {
	stats := &entities.EnrichmentStats{Total: len(candidates)}
	if len(candidates) == 0 {
		return []*entities.Candidate{}, stats
	}

	var matched, noMatch, missingName int64

	// Indices feed the pool; each worker writes only its own slot, so the
	// result slice needs no locking.
	enriched := make([]*entities.Candidate, len(candidates))
	indexChan := make(chan int, len(candidates))
	var wg sync.WaitGroup

	for i := 0; i < s.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				candidate := candidates[idx]
				enriched[idx] = candidate

				if candidate.DisplayName == "" {
					atomic.AddInt64(&missingName, 1)
					continue
				}

				hospital, err := s.resolver.Resolve(ctx, candidate)
				if err != nil {
					atomic.AddInt64(&noMatch, 1)
					log.Warn().Err(err).Str("candidate", candidate.DisplayName).Msg("candidate resolution failed")
					continue
				}
				if hospital == nil {
					atomic.AddInt64(&noMatch, 1)
					continue
				}

				candidate.InternalData = hospital
				atomic.AddInt64(&matched, 1)
			}
		}()
	}

	for idx := range candidates {
		indexChan <- idx
	}
	close(indexChan)
	wg.Wait()

	stats.Matched = int(matched)
	stats.NoMatch = int(noMatch)
	stats.MissingName = int(missingName)

	if s.metrics != nil {
		observability.RecordEnrichmentStats(ctx, s.metrics, stats.Total, stats.Matched, stats.NoMatch, stats.MissingName)
	}

	return enriched, stats
}
