package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/caresteer/hospital-discovery/backend/internal/domain/entities"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
)

const triageSystemPrompt = `You are a careful and knowledgeable medical assistant. The user provides a description of their symptoms and, optionally, descriptions of photos showing the condition.

Your tasks:
- Analyze the symptoms and any image descriptions.
- Assess which hospital capabilities the patient is likely to need.
- Do not diagnose or make definitive claims. Do not answer questions unrelated to medical conditions or symptoms.

Return ONLY valid JSON with this schema:
{
  "advice": string (plain English explanation/advice you would give the user),
  "severity": integer 1-10 (1 = minor, 10 = critical),
  "needs": {
    "isTrauma": boolean,
    "recommendedTraumaLevel": integer 1-5 or null (1 = highest capability; only when isTrauma is true),
    "needsMRI": boolean,
    "needsCTScan": boolean,
    "needsUltrasound": boolean,
    "needsPetCT": boolean,
    "needsSurgicalICU": boolean,
    "needsPediatricICU": boolean,
    "needsNeonatalICU": boolean
  }
}

Be concise and professional. Flag a capability only when the described symptoms plausibly call for it.`

func buildTriageUserPrompt(input providers.TriageInput) string {
	var b strings.Builder
	if strings.TrimSpace(input.Symptoms) != "" {
		fmt.Fprintf(&b, "Symptoms description: %s\n", input.Symptoms)
	}
	for i, desc := range input.ImageDescriptions {
		fmt.Fprintf(&b, "Image %d: %s\n", i+1, desc)
	}
	return b.String()
}

// triagePayload mirrors the provider response; Needs stays raw so profile
// fields can be decoded leniently.
type triagePayload struct {
	Advice   string          `json:"advice"`
	Severity int             `json:"severity"`
	Needs    json.RawMessage `json:"needs"`
}

func parseTriageAssessment(text string) (*providers.TriageAssessment, error) {
	var payload triagePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse triage payload: %w", err)
	}

	profileSource := payload.Needs
	if len(profileSource) == 0 {
		// Some model outputs inline the needs fields at the top level.
		profileSource = json.RawMessage(text)
	}

	profile, err := entities.ParseNeedsProfile(profileSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse needs profile: %w", err)
	}

	severity := payload.Severity
	if severity < 1 {
		severity = 1
	} else if severity > 10 {
		severity = 10
	}

	return &providers.TriageAssessment{
		Profile:  profile,
		Advice:   payload.Advice,
		Severity: severity,
	}, nil
}
