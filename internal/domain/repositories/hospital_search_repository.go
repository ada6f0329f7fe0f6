package repositories

import (
	"context"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
)

// SuggestParams holds parameters for hospital name autocomplete
type SuggestParams struct {
	Query string
	Limit int
}

// HospitalSearchRepository defines the search index contract for hospitals
type HospitalSearchRepository interface {
	// InitSchema ensures the search collection exists
	InitSchema(ctx context.Context) error

	// Index upserts a hospital into the search index
	Index(ctx context.Context, hospital *entities.Hospital) error

	// Delete removes a hospital from the search index
	Delete(ctx context.Context, id string) error

	// Suggest returns hospitals whose names match the query prefix
	Suggest(ctx context.Context, params SuggestParams) ([]*entities.HospitalSuggestion, error)
}
