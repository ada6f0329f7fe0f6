package services

import (
	"context"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/repositories"
	apperrors "github.com/caresteer/hospital-discovery/backend/pkg/errors"
)

// HospitalService is the read-side facade over the hospital dataset and the
// enrichment/ranking pipeline.
type HospitalService struct {
	hospitalRepo repositories.HospitalRepository
	searchRepo   repositories.HospitalSearchRepository
	enrichment   *EnrichmentService
	ranking      *RankingService
}

// NewHospitalService creates a new hospital service. searchRepo may be nil
// when no search index is configured.
func NewHospitalService(
	hospitalRepo repositories.HospitalRepository,
	searchRepo repositories.HospitalSearchRepository,
	enrichment *EnrichmentService,
	ranking *RankingService,
) *HospitalService {
	return &HospitalService{
		hospitalRepo: hospitalRepo,
		searchRepo:   searchRepo,
		enrichment:   enrichment,
		ranking:      ranking,
	}
}

// GetByID retrieves a single hospital record
func (s *HospitalService) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("hospital id is required")
	}
	return s.hospitalRepo.GetByID(ctx, id)
}

// Nearby returns internal hospital records within the radius, largest first
func (s *HospitalService) Nearby(ctx context.Context, params repositories.NearbyParams) ([]*entities.Hospital, error) {
	if err := validateCoordinates(params.Latitude, params.Longitude); err != nil {
		return nil, err
	}
	return s.hospitalRepo.FindNearby(ctx, params)
}

// EnrichedNearby fetches external candidates around the origin and joins
// them against the internal dataset.
func (s *HospitalService) EnrichedNearby(ctx context.Context, lat, lng float64, opts providers.NearbyOptions) ([]*entities.Candidate, *entities.EnrichmentStats, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, nil, err
	}
	return s.enrichment.EnrichNearby(ctx, lat, lng, opts)
}

// Recommend enriches candidates around the origin and ranks them against
// the needs profile. A nil profile still produces availability-ordered
// results.
func (s *HospitalService) Recommend(ctx context.Context, lat, lng float64, opts providers.NearbyOptions, profile *entities.NeedsProfile) ([]*entities.ScoredCandidate, *entities.EnrichmentStats, error) {
	enriched, stats, err := s.EnrichedNearby(ctx, lat, lng, opts)
	if err != nil {
		return nil, nil, err
	}
	return s.ranking.Rank(enriched, profile), stats, nil
}

// Suggest returns name autocomplete hits from the search index
func (s *HospitalService) Suggest(ctx context.Context, query string, limit int) ([]*entities.HospitalSuggestion, error) {
	if query == "" {
		return nil, apperrors.NewValidationError("query is required")
	}
	if s.searchRepo == nil {
		return nil, apperrors.NewExternalError("search index is not configured", nil)
	}
	return s.searchRepo.Suggest(ctx, repositories.SuggestParams{Query: query, Limit: limit})
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.NewValidationError("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return apperrors.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}
