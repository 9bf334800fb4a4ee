package answers

import (
	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// Dropdown holds one selected option per blank; empty until chosen.
type Dropdown struct {
	content    *models.DropdownContent
	selections []string
}

func NewDropdown(content *models.DropdownContent) *Dropdown {
	return &Dropdown{
		content:    content,
		selections: make([]string, len(content.OptionsPerBlank)),
	}
}

func (a *Dropdown) Type() models.ExerciseType { return models.DropdownBlank }

func (a *Dropdown) Apply(ev Event) (bool, error) {
	if ev.Kind != EventChoose {
		return false, ErrUnsupportedEvent
	}
	if ev.BlankIndex < 0 || ev.BlankIndex >= len(a.selections) {
		return false, nil
	}
	for _, o := range a.content.OptionsPerBlank[ev.BlankIndex] {
		if o.ID == ev.OptionID {
			a.selections[ev.BlankIndex] = ev.OptionID
			return true, nil
		}
	}
	return false, nil
}

// Selection returns the option chosen for a blank.
func (a *Dropdown) Selection(blankIndex int) string {
	if blankIndex < 0 || blankIndex >= len(a.selections) {
		return ""
	}
	return a.selections[blankIndex]
}

func (a *Dropdown) Len() int { return len(a.selections) }

func (a *Dropdown) Filled() bool {
	for _, s := range a.selections {
		if s == "" {
			return false
		}
	}
	return true
}

func (a *Dropdown) Snapshot() Snapshot {
	return Snapshot{
		Type:       models.DropdownBlank,
		Selections: append([]string(nil), a.selections...),
	}
}
