package places

import (
	"context"
	"fmt"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
)

// MockPlacesProvider implements a mock places provider for local
// development without a Google API key.
type MockPlacesProvider struct{}

// NewMockPlacesProvider creates a new mock places provider
func NewMockPlacesProvider() providers.PlacesProvider {
	return &MockPlacesProvider{}
}

// Nearby returns a small set of synthetic hospitals around the given coordinates
func (m *MockPlacesProvider) Nearby(ctx context.Context, lat, lng float64, opts providers.NearbyOptions) ([]*entities.Candidate, error) {
	open := true
	closed := false

	names := []struct {
		name   string
		dLat   float64
		dLng   float64
		open   *bool
		phone  string
		street string
	}{
		{"General Hospital", 0.01, 0.01, &open, "(555) 010-1000", "100 Care Blvd"},
		{"Mercy Medical Center", -0.02, 0.015, &open, "(555) 010-2000", "200 Mercy Way"},
		{"St. Luke's Community Hospital", 0.03, -0.02, &closed, "(555) 010-3000", "300 Parish Rd"},
	}

	candidates := make([]*entities.Candidate, 0, len(names))
	for _, n := range names {
		candidates = append(candidates, &entities.Candidate{
			DisplayName: n.name,
			Location: &entities.Location{
				Latitude:  lat + n.dLat,
				Longitude: lng + n.dLng,
			},
			OpenNow:     n.open,
			Address:     fmt.Sprintf("%s, Springfield, IL", n.street),
			PhoneNumber: n.phone,
		})
	}

	if opts.MaxResultCount > 0 && opts.MaxResultCount < len(candidates) {
		candidates = candidates[:opts.MaxResultCount]
	}

	return candidates, nil
}
