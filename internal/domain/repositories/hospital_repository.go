package repositories

import (
	"context"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
)

// HospitalRepository defines the interface for hospital record lookups.
// The dataset is read-only here; writes happen in an external ETL.
type HospitalRepository interface {
	// GetByID retrieves a hospital by ID
	GetByID(ctx context.Context, id string) (*entities.Hospital, error)

	// FindNearby retrieves hospitals within a radius, ordered by descending
	// total bed count
	FindNearby(ctx context.Context, params NearbyParams) ([]*entities.Hospital, error)

	// MatchByNameAndLocation retrieves hospitals whose name contains the
	// given name as a case-sensitive substring, filtered to the same radius
	MatchByNameAndLocation(ctx context.Context, params NameMatchParams) ([]*entities.Hospital, error)

	// List retrieves a page of hospitals ordered by ID, for bulk jobs such
	// as search reindexing
	List(ctx context.Context, limit, offset int) ([]*entities.Hospital, error)
}

// NearbyParams defines parameters for radius search
type NearbyParams struct {
	Latitude      float64
	Longitude     float64
	MaxDistanceKm float64
	MinBeds       int
	Limit         int
}

// NameMatchParams defines parameters for name-based match lookup.
// Location may be nil, in which case the distance filter is skipped.
type NameMatchParams struct {
	Name          string
	Location      *entities.Location
	MaxDistanceKm float64
	Limit         int
}
