package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresteer/hospital-discovery/backend/internal/application/services"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
)

type stubTriageProvider struct {
	assessment *providers.TriageAssessment
	err        error
}

func (s *stubTriageProvider) ExtractNeedsProfile(ctx context.Context, input providers.TriageInput) (*providers.TriageAssessment, error) {
	return s.assessment, s.err
}

func TestAssessTriage(t *testing.T) {
	provider := &stubTriageProvider{assessment: &providers.TriageAssessment{
		Profile:  &entities.NeedsProfile{IsTrauma: true},
		Advice:   "Seek a trauma center immediately.",
		Severity: 9,
	}}
	handler := NewTriageHandler(services.NewTriageService(provider))

	body := `{"symptoms": "severe bleeding after car accident"}`
	req := httptest.NewRequest(http.MethodPost, "/api/triage", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.AssessTriage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var assessment providers.TriageAssessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
	assert.Equal(t, 9, assessment.Severity)
	require.NotNil(t, assessment.Profile)
	assert.True(t, assessment.Profile.IsTrauma)
}

func TestAssessTriage_ImageDescriptionsOnly(t *testing.T) {
	provider := &stubTriageProvider{assessment: &providers.TriageAssessment{
		Profile:  &entities.NeedsProfile{NeedsUltrasound: true},
		Advice:   "Have the swelling examined.",
		Severity: 3,
	}}
	handler := NewTriageHandler(services.NewTriageService(provider))

	body := `{"imageDescriptions": ["swollen ankle with bruising"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/triage", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.AssessTriage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var assessment providers.TriageAssessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
	require.NotNil(t, assessment.Profile)
	assert.True(t, assessment.Profile.NeedsUltrasound)
}

func TestAssessTriage_EmptySymptoms(t *testing.T) {
	handler := NewTriageHandler(services.NewTriageService(&stubTriageProvider{}))

	req := httptest.NewRequest(http.MethodPost, "/api/triage", strings.NewReader(`{"symptoms": ""}`))
	rec := httptest.NewRecorder()
	handler.AssessTriage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssessTriage_ProviderUnauthorized(t *testing.T) {
	handler := NewTriageHandler(services.NewTriageService(&stubTriageProvider{
		err: providers.ErrTriageUnauthorized,
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/triage", strings.NewReader(`{"symptoms": "chest pain"}`))
	rec := httptest.NewRecorder()
	handler.AssessTriage(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
