package entities

// HospitalSuggestion is a lightweight search hit used for name autocomplete.
// It carries just enough to render a pick list; callers fetch the full
// record by ID once a suggestion is chosen.
type HospitalSuggestion struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	City     string   `json:"city,omitempty"`
	State    string   `json:"state,omitempty"`
	Location Location `json:"location"`
}
