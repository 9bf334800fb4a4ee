package models

// Score is the outcome of one submission. Percentage is in [0,100]; the raw
// fields keep the counts that produced it for result display.
type Score struct {
	Percentage float64 `json:"percentage"`
	Earned     float64 `json:"earned"`
	Possible   float64 `json:"possible"`

	// Reorder breakdown
	ExactMatches int `json:"exact_matches,omitempty"`
	CorrectPairs int `json:"correct_pairs,omitempty"`
	Pairs        int `json:"pairs,omitempty"`

	// Graded is false for writing exercises, which record a completion score only.
	Graded bool `json:"graded"`
}

// CompletionScore marks a writing exercise as attempted.
const CompletionScore = 100.0
