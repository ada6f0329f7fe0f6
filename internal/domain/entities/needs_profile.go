package entities

import "encoding/json"

// NeedsProfile is a structured representation of a patient's clinical
// requirements, typically produced by the language-model triage provider.
// It is immutable input to ranking.
type NeedsProfile struct {
	IsTrauma bool `json:"isTrauma"`
	// RecommendedTraumaLevel is 1-5 (1 = highest capability) or nil when the
	// triage step did not recommend a level.
	RecommendedTraumaLevel *int `json:"recommendedTraumaLevel,omitempty"`

	NeedsMRI        bool `json:"needsMRI"`
	NeedsCTScan     bool `json:"needsCTScan"`
	NeedsUltrasound bool `json:"needsUltrasound"`
	NeedsPetCT      bool `json:"needsPetCT"`

	NeedsSurgicalICU  bool `json:"needsSurgicalICU"`
	NeedsPediatricICU bool `json:"needsPediatricICU"`
	NeedsNeonatalICU  bool `json:"needsNeonatalICU"`
}

// ParseNeedsProfile decodes a needs profile from provider JSON. Missing or
// wrong-typed fields default to "not requested" rather than failing; only
// JSON that cannot be decoded as an object at all is an error.
func ParseNeedsProfile(data []byte) (*NeedsProfile, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	profile := &NeedsProfile{
		IsTrauma:          lenientBool(raw["isTrauma"]),
		NeedsMRI:          lenientBool(raw["needsMRI"]),
		NeedsCTScan:       lenientBool(raw["needsCTScan"]),
		NeedsUltrasound:   lenientBool(raw["needsUltrasound"]),
		NeedsPetCT:        lenientBool(raw["needsPetCT"]),
		NeedsSurgicalICU:  lenientBool(raw["needsSurgicalICU"]),
		NeedsPediatricICU: lenientBool(raw["needsPediatricICU"]),
		NeedsNeonatalICU:  lenientBool(raw["needsNeonatalICU"]),
	}

	if level, ok := lenientLevel(raw["recommendedTraumaLevel"]); ok {
		profile.RecommendedTraumaLevel = &level
	}

	return profile, nil
}

func lenientBool(data json.RawMessage) bool {
	if len(data) == 0 {
		return false
	}
	var value bool
	if err := json.Unmarshal(data, &value); err != nil {
		return false
	}
	return value
}

func lenientLevel(data json.RawMessage) (int, bool) {
	if len(data) == 0 {
		return 0, false
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, false
	}
	level := int(value)
	if level < 1 || level > 5 {
		return 0, false
	}
	return level, true
}
