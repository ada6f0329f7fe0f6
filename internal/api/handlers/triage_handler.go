package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caresteer/hospital-discovery/backend/internal/application/services"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
)

// TriageHandler handles triage HTTP requests
type TriageHandler struct {
	triageService *services.TriageService
}

// NewTriageHandler creates a new triage handler
func NewTriageHandler(triageService *services.TriageService) *TriageHandler {
	return &TriageHandler{triageService: triageService}
}

type triageRequest struct {
	Symptoms          string   `json:"symptoms"`
	ImageDescriptions []string `json:"imageDescriptions,omitempty"`
}

// AssessTriage handles POST /api/triage
func (h *TriageHandler) AssessTriage(w http.ResponseWriter, r *http.Request) {
	var req triageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assessment, err := h.triageService.Assess(r.Context(), providers.TriageInput{
		Symptoms:          req.Symptoms,
		ImageDescriptions: req.ImageDescriptions,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, assessment)
}
