package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/repositories"
	apperrors "github.com/caresteer/hospital-discovery/backend/pkg/errors"
)

func newHospitalService(places *fakePlacesProvider, resolver *fakeResolver) *HospitalService {
	enrichment := NewEnrichmentService(places, resolver, 4, nil)
	return NewHospitalService(&fakeHospitalRepo{}, nil, enrichment, NewRankingService())
}

func TestHospitalService_GetByID_RequiresID(t *testing.T) {
	service := newHospitalService(&fakePlacesProvider{}, &fakeResolver{})

	_, err := service.GetByID(context.Background(), "")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestHospitalService_Nearby_RejectsBadCoordinates(t *testing.T) {
	service := newHospitalService(&fakePlacesProvider{}, &fakeResolver{})

	_, err := service.Nearby(context.Background(), repositories.NearbyParams{Latitude: 95, Longitude: 0})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.Nearby(context.Background(), repositories.NearbyParams{Latitude: 0, Longitude: -200})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestHospitalService_Recommend_RanksEnrichedCandidates(t *testing.T) {
	places := &fakePlacesProvider{candidates: []*entities.Candidate{
		{DisplayName: "Quiet Hospital"},
		{DisplayName: "Busy Hospital"},
	}}
	resolver := &fakeResolver{hospitals: map[string]*entities.Hospital{
		"Quiet Hospital": {ID: "h-1", Name: "Quiet Hospital", TotalBeds: 100, TotalBedsLoad: 10},
		"Busy Hospital":  {ID: "h-2", Name: "Busy Hospital", TotalBeds: 100, TotalBedsLoad: 95},
	}}
	service := newHospitalService(places, resolver)

	scored, stats, err := service.Recommend(context.Background(), 40.7128, -74.0060, providers.NearbyOptions{}, nil)

	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, "Quiet Hospital", scored[0].Candidate.DisplayName)
	assert.Equal(t, 90, scored[0].Score)
	assert.Equal(t, 2, stats.Matched)
}

func TestHospitalService_Suggest_RequiresQueryAndIndex(t *testing.T) {
	service := newHospitalService(&fakePlacesProvider{}, &fakeResolver{})

	_, err := service.Suggest(context.Background(), "", 5)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.Suggest(context.Background(), "mercy", 5)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}
