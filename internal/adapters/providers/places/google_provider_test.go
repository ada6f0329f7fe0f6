package places

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	apperrors "github.com/caresteer/hospital-discovery/backend/pkg/errors"
)

func TestGooglePlacesProvider_Nearby(t *testing.T) {
	var gotBody searchNearbyRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.NotEmpty(t, r.Header.Get("X-Goog-FieldMask"))

		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"places": [
				{
					"displayName": {"text": "General Hospital", "languageCode": "en"},
					"location": {"latitude": 40.72, "longitude": -74.01},
					"formattedAddress": "100 Care Blvd, New York, NY",
					"nationalPhoneNumber": "(555) 010-1000",
					"websiteUri": "https://generalhospital.example.org",
					"currentOpeningHours": {"openNow": true}
				},
				{
					"displayName": {"text": "Unnamed Clinic"}
				}
			]
		}`))
	}))
	defer server.Close()

	provider := NewGooglePlacesProviderWithOptions("test-key", nil, server.URL, server.Client())

	candidates, err := provider.Nearby(context.Background(), 40.7128, -74.0060, providers.NearbyOptions{
		RadiusMeters:   10000,
		MaxResultCount: 5,
	})

	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, "General Hospital", first.DisplayName)
	require.NotNil(t, first.Location)
	assert.InDelta(t, 40.72, first.Location.Latitude, 1e-9)
	require.NotNil(t, first.OpenNow)
	assert.True(t, *first.OpenNow)
	assert.Equal(t, "(555) 010-1000", first.PhoneNumber)

	second := candidates[1]
	assert.Equal(t, "Unnamed Clinic", second.DisplayName)
	assert.Nil(t, second.Location)
	assert.Nil(t, second.OpenNow)

	assert.Equal(t, []string{"hospital"}, gotBody.IncludedTypes)
	assert.Equal(t, 5, gotBody.MaxResultCount)
	assert.InDelta(t, 10000, gotBody.LocationRestriction.Circle.Radius, 1e-9)
	assert.Equal(t, "US", gotBody.RegionCode)
}

func TestGooglePlacesProvider_Nearby_DefaultsApplied(t *testing.T) {
	var gotBody searchNearbyRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"places": []}`))
	}))
	defer server.Close()

	provider := NewGooglePlacesProviderWithOptions("test-key", nil, server.URL, server.Client())

	candidates, err := provider.Nearby(context.Background(), 6.52, 3.37, providers.NearbyOptions{})

	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Equal(t, defaultMaxResultCount, gotBody.MaxResultCount)
	assert.InDelta(t, defaultRadiusMeters, gotBody.LocationRestriction.Circle.Radius, 1e-9)
	assert.Equal(t, defaultLanguageCode, gotBody.LanguageCode)
}

func TestGooglePlacesProvider_Nearby_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewGooglePlacesProviderWithOptions("test-key", nil, server.URL, server.Client())

	_, err := provider.Nearby(context.Background(), 40.7128, -74.0060, providers.NearbyOptions{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestGooglePlacesProvider_Nearby_MissingKey(t *testing.T) {
	provider := NewGooglePlacesProviderWithOptions("", nil, "http://unused", nil)

	_, err := provider.Nearby(context.Background(), 40.7128, -74.0060, providers.NearbyOptions{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}
