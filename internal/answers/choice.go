package answers

import (
	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// SingleChoice holds at most one selected option.
type SingleChoice struct {
	content  *models.ChoiceContent
	selected string
}

func NewSingleChoice(content *models.ChoiceContent) *SingleChoice {
	return &SingleChoice{content: content}
}

func (a *SingleChoice) Type() models.ExerciseType { return models.SingleChoice }

func (a *SingleChoice) Apply(ev Event) (bool, error) {
	if ev.Kind != EventSelect {
		return false, ErrUnsupportedEvent
	}
	if _, ok := a.content.FindOption(ev.OptionID); !ok {
		return false, nil
	}
	a.selected = ev.OptionID
	return true, nil
}

// Selected returns the chosen option id, empty when nothing is selected.
func (a *SingleChoice) Selected() string { return a.selected }

func (a *SingleChoice) Snapshot() Snapshot {
	return Snapshot{Type: models.SingleChoice, Selected: a.selected}
}

// MultiChoice holds a set of selected options, kept in selection order.
type MultiChoice struct {
	content  *models.ChoiceContent
	selected []string
}

func NewMultiChoice(content *models.ChoiceContent) *MultiChoice {
	return &MultiChoice{content: content}
}

func (a *MultiChoice) Type() models.ExerciseType { return models.MultiChoice }

func (a *MultiChoice) Apply(ev Event) (bool, error) {
	if ev.Kind != EventToggle {
		return false, ErrUnsupportedEvent
	}
	if _, ok := a.content.FindOption(ev.OptionID); !ok {
		return false, nil
	}
	for i, id := range a.selected {
		if id == ev.OptionID {
			a.selected = append(a.selected[:i], a.selected[i+1:]...)
			return true, nil
		}
	}
	a.selected = append(a.selected, ev.OptionID)
	return true, nil
}

// IsSelected reports whether the option is in the selection.
func (a *MultiChoice) IsSelected(optionID string) bool {
	for _, id := range a.selected {
		if id == optionID {
			return true
		}
	}
	return false
}

func (a *MultiChoice) Selected() []string {
	return append([]string(nil), a.selected...)
}

func (a *MultiChoice) Snapshot() Snapshot {
	return Snapshot{Type: models.MultiChoice, SelectedSet: a.Selected()}
}
