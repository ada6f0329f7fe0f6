package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/caresteer/hospital-discovery/backend/internal/application/services"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/repositories"
	apperrors "github.com/caresteer/hospital-discovery/backend/pkg/errors"
)

const (
	defaultNearbyRadiusKm = 10
	defaultNearbyLimit    = 30
)

// HospitalHandler handles hospital-related HTTP requests
type HospitalHandler struct {
	hospitalService *services.HospitalService
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(hospitalService *services.HospitalService) *HospitalHandler {
	return &HospitalHandler{hospitalService: hospitalService}
}

// GetHospital handles GET /api/hospitals/{id}
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	hospitalID := r.PathValue("id")
	if hospitalID == "" {
		respondWithError(w, http.StatusBadRequest, "hospital ID is required")
		return
	}

	hospital, err := h.hospitalService.GetByID(r.Context(), hospitalID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hospital)
}

// GetNearbyHospitals handles GET /api/hospitals/nearby
func (h *HospitalHandler) GetNearbyHospitals(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := parseCoordinates(w, r)
	if !ok {
		return
	}

	params := repositories.NearbyParams{
		Latitude:      lat,
		Longitude:     lng,
		MaxDistanceKm: floatQueryParam(r, "radius_km", defaultNearbyRadiusKm),
		MinBeds:       intQueryParam(r, "min_beds", 0),
		Limit:         intQueryParam(r, "limit", defaultNearbyLimit),
	}

	hospitals, err := h.hospitalService.Nearby(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// GetEnrichedHospitals handles GET /api/hospitals/enriched
func (h *HospitalHandler) GetEnrichedHospitals(w http.ResponseWriter, r *http.Request) {
	lat, lng, ok := parseCoordinates(w, r)
	if !ok {
		return
	}

	opts := providers.NearbyOptions{
		RadiusMeters:   intQueryParam(r, "radius_m", 0),
		MaxResultCount: intQueryParam(r, "max_results", 0),
	}

	enriched, stats, err := h.hospitalService.EnrichedNearby(r.Context(), lat, lng, opts)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"places": enriched,
		"debug":  stats,
	})
}

// recommendRequest is the body of POST /api/hospitals/recommend. Needs is
// decoded leniently: malformed fields degrade to "not requested".
type recommendRequest struct {
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	RadiusMeters int             `json:"radius_meters,omitempty"`
	MaxResults   int             `json:"max_results,omitempty"`
	Needs        json.RawMessage `json:"needs,omitempty"`
}

// RecommendHospitals handles POST /api/hospitals/recommend
func (h *HospitalHandler) RecommendHospitals(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var profile *entities.NeedsProfile
	if len(req.Needs) > 0 {
		parsed, err := entities.ParseNeedsProfile(req.Needs)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "needs must be a JSON object")
			return
		}
		profile = parsed
	}

	opts := providers.NearbyOptions{
		RadiusMeters:   req.RadiusMeters,
		MaxResultCount: req.MaxResults,
	}

	scored, stats, err := h.hospitalService.Recommend(r.Context(), req.Latitude, req.Longitude, opts, profile)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"places": scored,
		"debug":  stats,
	})
}

// SuggestHospitals handles GET /api/hospitals/suggest
func (h *HospitalHandler) SuggestHospitals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	suggestions, err := h.hospitalService.Suggest(r.Context(), query, intQueryParam(r, "limit", 0))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

func parseCoordinates(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr == "" || lngStr == "" {
		respondWithError(w, http.StatusBadRequest, "lat and lng query parameters are required")
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lat must be a number")
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lng must be a number")
		return 0, 0, false
	}

	return lat, lng, true
}

func floatQueryParam(r *http.Request, name string, defaultValue float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func intQueryParam(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsType(err, apperrors.ErrorTypeValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case apperrors.IsType(err, apperrors.ErrorTypeExternal):
		respondWithError(w, http.StatusBadGateway, "upstream dependency unavailable")
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
