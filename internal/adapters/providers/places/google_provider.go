package places

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	apperrors "github.com/caresteer/hospital-discovery/backend/pkg/errors"
)

const (
	googleSearchNearbyURL = "https://places.googleapis.com/v1/places:searchNearby"

	// The Places API caps the circle radius at 50km.
	maxRadiusMeters = 50000

	defaultRadiusMeters   = 50000
	defaultMaxResultCount = 10
	defaultLanguageCode   = "en"
	defaultRegionCode     = "US"

	defaultFieldMask = "places.displayName,places.location,places.formattedAddress," +
		"places.nationalPhoneNumber,places.websiteUri,places.currentOpeningHours.openNow"

	defaultNearbyCacheTTL = 60
	defaultHTTPTimeout    = 8 * time.Second
)

// GooglePlacesProvider implements the PlacesProvider using the Google
// Places API (New) searchNearby endpoint.
type GooglePlacesProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.CacheProvider
	baseURL    string
}

// NewGooglePlacesProvider creates a new Google Places provider.
func NewGooglePlacesProvider(apiKey string, cache providers.CacheProvider) providers.PlacesProvider {
	return NewGooglePlacesProviderWithOptions(apiKey, cache, googleSearchNearbyURL, nil)
}

// NewGooglePlacesProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGooglePlacesProviderWithOptions(apiKey string, cache providers.CacheProvider, baseURL string, httpClient *http.Client) providers.PlacesProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleSearchNearbyURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GooglePlacesProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
	}
}

// Nearby returns hospitals around the given coordinates as external candidates.
func (g *GooglePlacesProvider) Nearby(ctx context.Context, lat, lng float64, opts providers.NearbyOptions) ([]*entities.Candidate, error) {
	if g.apiKey == "" {
		return nil, apperrors.NewExternalError("google places api key is required", nil)
	}

	radius := opts.RadiusMeters
	if radius <= 0 || radius > maxRadiusMeters {
		radius = defaultRadiusMeters
	}
	maxResults := opts.MaxResultCount
	if maxResults <= 0 {
		maxResults = defaultMaxResultCount
	}
	language := opts.LanguageCode
	if language == "" {
		language = defaultLanguageCode
	}
	region := opts.RegionCode
	if region == "" {
		region = defaultRegionCode
	}

	cacheKey := fmt.Sprintf("places:v1:nearby:%s", hashKey(fmt.Sprintf("%.5f,%.5f,%d,%d,%s,%s", lat, lng, radius, maxResults, language, region)))
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var candidates []*entities.Candidate
			if err := json.Unmarshal(cached, &candidates); err == nil {
				return candidates, nil
			}
		}
	}

	body := searchNearbyRequest{
		IncludedTypes:  []string{"hospital"},
		MaxResultCount: maxResults,
		LocationRestriction: locationRestriction{
			Circle: circle{
				Center: latLng{Latitude: lat, Longitude: lng},
				Radius: float64(radius),
			},
		},
		LanguageCode: language,
		RegionCode:   region,
	}

	resp, err := g.doSearchNearby(ctx, body)
	if err != nil {
		return nil, err
	}

	candidates := make([]*entities.Candidate, 0, len(resp.Places))
	for _, place := range resp.Places {
		candidate := &entities.Candidate{
			DisplayName: place.DisplayName.Text,
			Address:     place.FormattedAddress,
			PhoneNumber: place.NationalPhoneNumber,
			Website:     place.WebsiteURI,
		}
		if place.Location != nil {
			candidate.Location = &entities.Location{
				Latitude:  place.Location.Latitude,
				Longitude: place.Location.Longitude,
			}
		}
		if place.CurrentOpeningHours != nil {
			openNow := place.CurrentOpeningHours.OpenNow
			candidate.OpenNow = &openNow
		}
		candidates = append(candidates, candidate)
	}

	if g.cache != nil {
		if payload, err := json.Marshal(candidates); err == nil {
			_ = g.cache.Set(ctx, cacheKey, payload, defaultNearbyCacheTTL)
		}
	}

	return candidates, nil
}

func (g *GooglePlacesProvider) doSearchNearby(ctx context.Context, body searchNearbyRequest) (*searchNearbyResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode places request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build places request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", g.apiKey)
	req.Header.Set("X-Goog-FieldMask", defaultFieldMask)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("places request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(fmt.Sprintf("places request returned status %d", resp.StatusCode), nil)
	}

	var decoded searchNearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.NewExternalError("failed to decode places response", err)
	}

	if decoded.Error != nil {
		return nil, apperrors.NewExternalError(fmt.Sprintf("places request failed: %s", decoded.Error.Message), nil)
	}

	return &decoded, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

type searchNearbyRequest struct {
	IncludedTypes       []string            `json:"includedTypes"`
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
	LanguageCode        string              `json:"languageCode"`
	RegionCode          string              `json:"regionCode"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchNearbyResponse struct {
	Places []googlePlace `json:"places"`
	Error  *googleError  `json:"error,omitempty"`
}

type googleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type googlePlace struct {
	DisplayName         localizedText  `json:"displayName"`
	Location            *latLng        `json:"location,omitempty"`
	FormattedAddress    string         `json:"formattedAddress,omitempty"`
	NationalPhoneNumber string         `json:"nationalPhoneNumber,omitempty"`
	WebsiteURI          string         `json:"websiteUri,omitempty"`
	CurrentOpeningHours *openingHours  `json:"currentOpeningHours,omitempty"`
}

type localizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type openingHours struct {
	OpenNow bool `json:"openNow"`
}
