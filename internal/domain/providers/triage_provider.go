package providers

import (
	"context"
	"errors"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
)

// ErrTriageUnauthorized indicates the language-model provider rejected the
// configured credentials.
var ErrTriageUnauthorized = errors.New("triage provider unauthorized")

// TriageProvider derives a structured needs profile from a patient's own
// description of their condition. The provider is an opaque producer: the
// core consumes the parsed profile and does not validate schema beyond
// lenient field defaults.
type TriageProvider interface {
	// ExtractNeedsProfile analyzes a symptoms transcript plus optional image
	// descriptions and returns the assessed needs profile together with a
	// 1-10 severity estimate.
	ExtractNeedsProfile(ctx context.Context, input TriageInput) (*TriageAssessment, error)
}

// TriageInput carries the free-text material for one triage request.
type TriageInput struct {
	Symptoms          string
	ImageDescriptions []string
}

// TriageAssessment is the provider's structured output.
type TriageAssessment struct {
	Profile  *entities.NeedsProfile `json:"profile"`
	Advice   string                 `json:"advice"`
	Severity int                    `json:"severity"`
}
