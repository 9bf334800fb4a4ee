// Package answers holds the in-progress answer of one exercise session, one
// store per exercise variant, and the move algorithms that keep positional
// answers consistent.
package answers

import (
	"errors"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

type EventKind string

const (
	EventSelect  EventKind = "select"   // single_choice: pick one option
	EventToggle  EventKind = "toggle"   // multi_choice: add or remove an option
	EventMove    EventKind = "move"     // reorder, drag_blank: drag-and-drop result
	EventChoose  EventKind = "choose"   // dropdown_blank: pick an option for a blank
	EventSetText EventKind = "set_text" // summarize, essay: replace the text
)

// Move is the result of one drag gesture: the element at SourceIndex of
// SourceList was dropped at DestIndex of DestList.
type Move struct {
	SourceList  string `json:"source_list"`
	SourceIndex int    `json:"source_index"`
	DestList    string `json:"dest_list"`
	DestIndex   int    `json:"dest_index"`
}

// Event is one user interaction with an answer.
type Event struct {
	Kind       EventKind `json:"kind" binding:"required"`
	OptionID   string    `json:"option_id,omitempty"`
	BlankIndex int       `json:"blank_index,omitempty"`
	Text       string    `json:"text,omitempty"`
	Move       *Move     `json:"move,omitempty"`
}

var ErrUnsupportedEvent = errors.New("event not supported by this exercise type")

// Answer is the mutable answer state of one session.
//
// Apply returns false without error when the event referenced state that
// does not exist (an out-of-range index, an unknown option); such events are
// ignored so stale gestures cannot corrupt the answer.
type Answer interface {
	Type() models.ExerciseType
	Apply(ev Event) (bool, error)
	Snapshot() Snapshot
}

// Snapshot is a read-only copy of an answer for rendering.
type Snapshot struct {
	Type models.ExerciseType `json:"type"`

	Selected    string   `json:"selected,omitempty"`
	SelectedSet []string `json:"selected_set,omitempty"`

	Source []string `json:"source,omitempty"`
	Target []string `json:"target,omitempty"`

	Blanks   []BlankSlot `json:"blanks,omitempty"`
	Unplaced []string    `json:"unplaced,omitempty"`

	Selections []string `json:"selections,omitempty"`

	Text      string `json:"text,omitempty"`
	WordCount int    `json:"word_count"`
	CharCount int    `json:"char_count"`
}

type BlankSlot struct {
	BlankID  string `json:"blank_id"`
	ChoiceID string `json:"choice_id,omitempty"`
}
