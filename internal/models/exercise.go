package models

import (
	"regexp"
)

type ExerciseType string

const (
	SingleChoice  ExerciseType = "single_choice"
	MultiChoice   ExerciseType = "multi_choice"
	Reorder       ExerciseType = "reorder"
	DragBlank     ExerciseType = "drag_blank"
	DropdownBlank ExerciseType = "dropdown_blank"
	Summarize     ExerciseType = "summarize"
	Essay         ExerciseType = "essay"
)

// ExerciseTypes lists every variant in presentation order.
var ExerciseTypes = []ExerciseType{
	SingleChoice,
	MultiChoice,
	Reorder,
	DragBlank,
	DropdownBlank,
	Summarize,
	Essay,
}

// IsWriting reports whether the variant is a free-text exercise.
func (t ExerciseType) IsWriting() bool {
	return t == Summarize || t == Essay
}

// Default word limits applied to summarize exercises that carry none.
const (
	SummarizeMinWords = 5
	SummarizeMaxWords = 75
)

// ExerciseDefinition is one practice question including its ground truth.
// Exactly one of the variant sections is set, selected by Type.
type ExerciseDefinition struct {
	ID               string       `json:"id" validate:"required,max=100"`
	Type             ExerciseType `json:"type" validate:"required,exercise_type"`
	Prompt           string       `json:"prompt"`
	TimeLimitSeconds int          `json:"time_limit_seconds" validate:"min=0"`

	Choice    *ChoiceContent    `json:"choice,omitempty" validate:"omitempty"`
	Reorder   *ReorderContent   `json:"reorder,omitempty" validate:"omitempty"`
	DragBlank *DragBlankContent `json:"drag_blank,omitempty" validate:"omitempty"`
	Dropdown  *DropdownContent  `json:"dropdown,omitempty" validate:"omitempty"`
	Writing   *WritingContent   `json:"writing,omitempty" validate:"omitempty"`
}

type Option struct {
	ID        string `json:"id" validate:"required"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Item struct {
	ID   string `json:"id" validate:"required"`
	Text string `json:"text"`
}

// ChoiceContent backs single_choice and multi_choice.
type ChoiceContent struct {
	Passage string   `json:"passage"`
	Options []Option `json:"options" validate:"required,min=2,dive"`
}

type ReorderContent struct {
	Sentences    []Item   `json:"sentences" validate:"required,min=1,dive"`
	CorrectOrder []string `json:"correct_order" validate:"required,min=1"`
}

// DragBlankContent holds a text with [n] placeholders and the choices to drop
// into them. Blank n is graded against CorrectOrder[n-1].
type DragBlankContent struct {
	Text         string   `json:"text" validate:"required"`
	Choices      []Item   `json:"choices" validate:"required,min=1,dive"`
	CorrectOrder []string `json:"correct_order" validate:"required,min=1"`
}

type DropdownContent struct {
	Text            string     `json:"text"`
	OptionsPerBlank [][]Option `json:"options_per_blank" validate:"required,min=1,dive,min=1,dive"`
}

type WordLimit struct {
	Min int  `json:"min" validate:"min=0"`
	Max *int `json:"max,omitempty"` // nil means unbounded
}

type WritingContent struct {
	Text      string     `json:"text"`
	WordLimit *WordLimit `json:"word_limit,omitempty"`
}

var placeholderPattern = regexp.MustCompile(`\[(\d+)\]`)

// BlankIDs returns the placeholder ids of the drag-blank text in order of
// appearance. Repeated placeholders are reported once.
func (c *DragBlankContent) BlankIDs() []string {
	matches := placeholderPattern.FindAllStringSubmatch(c.Text, -1)
	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	}
	return ids
}

// CorrectOptions returns the options flagged correct.
func (c *ChoiceContent) CorrectOptions() []Option {
	var out []Option
	for _, o := range c.Options {
		if o.IsCorrect {
			out = append(out, o)
		}
	}
	return out
}

// FindOption looks up an option by id.
func (c *ChoiceContent) FindOption(id string) (Option, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Limits returns the word limit in force for a writing exercise.
func (d *ExerciseDefinition) Limits() WordLimit {
	if d.Writing != nil && d.Writing.WordLimit != nil {
		return *d.Writing.WordLimit
	}
	if d.Type == Summarize {
		max := SummarizeMaxWords
		return WordLimit{Min: SummarizeMinWords, Max: &max}
	}
	return WordLimit{}
}
