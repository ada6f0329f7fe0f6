package entities

// Candidate is a facility as reported by the external places directory,
// prior to (or after) matching against the internal hospital dataset.
// Candidates are ephemeral and constructed per request.
type Candidate struct {
	DisplayName string    `json:"display_name"`
	Location    *Location `json:"location,omitempty"`
	OpenNow     *bool     `json:"open_now,omitempty"`
	Address     string    `json:"address,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Website     string    `json:"website,omitempty"`

	// InternalData is populated when the candidate resolves to an internal
	// hospital record; nil means unmatched.
	InternalData *Hospital `json:"internal_data,omitempty"`
}

// Matched reports whether the candidate resolved to an internal record.
func (c *Candidate) Matched() bool {
	return c.InternalData != nil
}

// EnrichmentStats accumulates match-quality telemetry for one enrichment
// batch. The counters are exposed for observability and never influence
// ranking.
type EnrichmentStats struct {
	Total       int `json:"total"`
	Matched     int `json:"matched"`
	NoMatch     int `json:"noMatch"`
	MissingName int `json:"missingName"`
}

// ScoredCandidate is a candidate with its fitness score for a needs profile
// and an estimated wait in minutes. EstimatedWaitMinutes is nil for
// candidates without internal data.
type ScoredCandidate struct {
	Candidate            *Candidate `json:"candidate"`
	Score                int        `json:"score"`
	EstimatedWaitMinutes *int       `json:"estimated_wait"`
}
