package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/repositories"
)

// CachedHospitalAdapter wraps HospitalAdapter with read-through caching.
// Only GetByID is cached: radius and match queries are keyed on floating
// point coordinates and would fragment the cache per request.
type CachedHospitalAdapter struct {
	adapter repositories.HospitalRepository
	cache   providers.CacheProvider
}

// NewCachedHospitalAdapter creates a new cached hospital adapter
func NewCachedHospitalAdapter(adapter repositories.HospitalRepository, cache providers.CacheProvider) repositories.HospitalRepository {
	return &CachedHospitalAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// hospitalByIDTTL is the cache lifetime in seconds; capacity fields change
// slowly (the ingestion ETL refreshes hourly at most).
const hospitalByIDTTL = 300

func hospitalCacheKey(id string) string {
	return fmt.Sprintf("hospital:%s", id)
}

// GetByID retrieves a hospital by ID with caching
func (a *CachedHospitalAdapter) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	cacheKey := hospitalCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var hospital entities.Hospital
		if err := json.Unmarshal(cached, &hospital); err == nil {
			return &hospital, nil
		}
		log.Warn().Str("hospital_id", id).Msg("failed to unmarshal cached hospital")
	}

	hospital, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(hospital); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, hospitalByIDTTL); err != nil {
				log.Warn().Err(err).Str("hospital_id", id).Msg("failed to cache hospital")
			}
		}
	}()

	return hospital, nil
}

// FindNearby delegates to the underlying adapter
func (a *CachedHospitalAdapter) FindNearby(ctx context.Context, params repositories.NearbyParams) ([]*entities.Hospital, error) {
	return a.adapter.FindNearby(ctx, params)
}

// MatchByNameAndLocation delegates to the underlying adapter
func (a *CachedHospitalAdapter) MatchByNameAndLocation(ctx context.Context, params repositories.NameMatchParams) ([]*entities.Hospital, error) {
	return a.adapter.MatchByNameAndLocation(ctx, params)
}

// List delegates to the underlying adapter
func (a *CachedHospitalAdapter) List(ctx context.Context, limit, offset int) ([]*entities.Hospital, error) {
	return a.adapter.List(ctx, limit, offset)
}
