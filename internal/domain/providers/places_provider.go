package providers

import (
	"context"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
)

// PlacesProvider defines the interface for the external places directory.
type PlacesProvider interface {
	// Nearby returns candidate facilities around a coordinate. A provider
	// failure is batch-fatal for the caller.
	Nearby(ctx context.Context, lat, lng float64, opts NearbyOptions) ([]*entities.Candidate, error)
}

// NearbyOptions tunes a places directory request. Zero values fall back to
// provider defaults.
type NearbyOptions struct {
	RadiusMeters   int
	MaxResultCount int
	LanguageCode   string
	RegionCode     string
}
