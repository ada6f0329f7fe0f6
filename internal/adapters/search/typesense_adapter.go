package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/repositories"
	tsclient "github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/typesense"
)

const defaultSuggestLimit = 10

// TypesenseAdapter implements hospital name autocomplete using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements HospitalSearchRepository
var _ repositories.HospitalSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the hospitals collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(tsclient.HospitalsCollection).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: tsclient.HospitalsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "state", Type: "string", Facet: pointer.True()},
			{Name: "location", Type: "geopoint"},
			{Name: "total_beds", Type: "int32"},
		},
		DefaultSortingField: pointer.String("total_beds"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a hospital into the index
func (a *TypesenseAdapter) Index(ctx context.Context, hospital *entities.Hospital) error {
	document := map[string]interface{}{
		"id":         hospital.ID,
		"name":       hospital.Name,
		"city":       hospital.Address.City,
		"state":      hospital.Address.State,
		"location":   []float64{hospital.Location.Latitude, hospital.Location.Longitude},
		"total_beds": hospital.TotalBeds,
	}

	_, err := a.client.Client().Collection(tsclient.HospitalsCollection).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index hospital: %w", err)
	}

	return nil
}

// Delete removes a hospital from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.HospitalsCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete hospital from index: %w", err)
	}
	return nil
}

// Suggest returns hospitals whose names match the query prefix,
// larger hospitals first when relevance ties.
func (a *TypesenseAdapter) Suggest(ctx context.Context, params repositories.SuggestParams) ([]*entities.HospitalSuggestion, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(params.Query),
		QueryBy: pointer.String("name"),
		SortBy:  pointer.String("_text_match:desc,total_beds:desc"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.HospitalsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search hospitals: %w", err)
	}

	suggestions := []*entities.HospitalSuggestion{}
	if result.Hits == nil {
		return suggestions, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		suggestion := &entities.HospitalSuggestion{}
		if val, ok := doc["id"].(string); ok {
			suggestion.ID = val
		}
		if val, ok := doc["name"].(string); ok {
			suggestion.Name = val
		}
		if val, ok := doc["city"].(string); ok {
			suggestion.City = val
		}
		if val, ok := doc["state"].(string); ok {
			suggestion.State = val
		}
		// Typesense returns geopoints as [lat, lng]
		if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
			if lat, ok := loc[0].(float64); ok {
				suggestion.Location.Latitude = lat
			}
			if lng, ok := loc[1].(float64); ok {
				suggestion.Location.Longitude = lng
			}
		}

		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}
