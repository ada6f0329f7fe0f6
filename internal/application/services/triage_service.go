package services

import (
	"context"
	"errors"
	"strings"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	apperrors "github.com/caresteer/hospital-discovery/backend/pkg/errors"
)

const maxSymptomsLength = 8000

// TriageService turns a patient's free-text description into a structured
// needs profile via the language-model provider.
type TriageService struct {
	provider providers.TriageProvider
}

// NewTriageService creates a new triage service
func NewTriageService(provider providers.TriageProvider) *TriageService {
	return &TriageService{provider: provider}
}

// Assess validates the input and asks the provider for an assessment.
func (s *TriageService) Assess(ctx context.Context, input providers.TriageInput) (*providers.TriageAssessment, error) {
	input.Symptoms = strings.TrimSpace(input.Symptoms)
	if input.Symptoms == "" && len(input.ImageDescriptions) == 0 {
		return nil, apperrors.NewValidationError("either a symptoms description or image descriptions are required")
	}
	if len(input.Symptoms) > maxSymptomsLength {
		return nil, apperrors.NewValidationError("symptoms description is too long")
	}

	assessment, err := s.provider.ExtractNeedsProfile(ctx, input)
	if err != nil {
		if errors.Is(err, providers.ErrTriageUnauthorized) {
			return nil, apperrors.NewExternalError("triage provider rejected credentials", err)
		}
		if apperrors.IsType(err, apperrors.ErrorTypeExternal) {
			return nil, err
		}
		return nil, apperrors.NewExternalError("triage provider failed", err)
	}

	return assessment, nil
}
