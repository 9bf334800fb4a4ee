package answers

import (
	"strings"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// Drag-blank lists: the tray of unplaced choices, and one list per blank
// named BlankListPrefix + blank id.
const (
	ListChoices     = "choices"
	BlankListPrefix = "blank-"
)

// BlankList returns the list name of a blank.
func BlankList(blankID string) string {
	return BlankListPrefix + blankID
}

// DragBlank assigns choices to blanks. Every choice is in exactly one place:
// the unplaced tray or a single blank.
type DragBlank struct {
	blankIDs []string
	assigned map[string]string
	unplaced []string
}

func NewDragBlank(blankIDs, choiceIDs []string) *DragBlank {
	return &DragBlank{
		blankIDs: append([]string(nil), blankIDs...),
		assigned: make(map[string]string, len(blankIDs)),
		unplaced: append([]string(nil), choiceIDs...),
	}
}

func (a *DragBlank) Type() models.ExerciseType { return models.DragBlank }

func (a *DragBlank) Apply(ev Event) (bool, error) {
	if ev.Kind != EventMove || ev.Move == nil {
		return false, ErrUnsupportedEvent
	}
	return a.Move(*ev.Move), nil
}

// Move transfers a choice between the tray and the blanks:
//   - tray to blank: the blank's previous choice, if any, returns to the end
//     of the tray;
//   - blank to tray: the blank empties and its choice joins the end of the tray;
//   - blank to blank: the two blanks swap contents.
//
// Moves from an empty blank, within the tray, or naming unknown lists are
// ignored.
func (a *DragBlank) Move(m Move) bool {
	if m.SourceList == m.DestList && m.SourceIndex == m.DestIndex {
		return false
	}

	srcBlank, srcIsBlank := a.blankOf(m.SourceList)
	dstBlank, dstIsBlank := a.blankOf(m.DestList)

	switch {
	case m.SourceList == ListChoices && dstIsBlank:
		if m.SourceIndex < 0 || m.SourceIndex >= len(a.unplaced) {
			return false
		}
		choice := a.unplaced[m.SourceIndex]
		a.unplaced = append(a.unplaced[:m.SourceIndex], a.unplaced[m.SourceIndex+1:]...)
		if prev := a.assigned[dstBlank]; prev != "" {
			a.unplaced = append(a.unplaced, prev)
		}
		a.assigned[dstBlank] = choice
		return true

	case srcIsBlank && m.DestList == ListChoices:
		choice := a.assigned[srcBlank]
		if choice == "" {
			return false
		}
		delete(a.assigned, srcBlank)
		a.unplaced = append(a.unplaced, choice)
		return true

	case srcIsBlank && dstIsBlank:
		choice := a.assigned[srcBlank]
		if choice == "" || srcBlank == dstBlank {
			return false
		}
		if prev := a.assigned[dstBlank]; prev != "" {
			a.assigned[srcBlank] = prev
		} else {
			delete(a.assigned, srcBlank)
		}
		a.assigned[dstBlank] = choice
		return true
	}

	return false
}

// Assigned returns the choice in a blank, empty when the blank is empty.
func (a *DragBlank) Assigned(blankID string) string {
	return a.assigned[blankID]
}

func (a *DragBlank) BlankIDs() []string {
	return append([]string(nil), a.blankIDs...)
}

func (a *DragBlank) Unplaced() []string {
	return append([]string(nil), a.unplaced...)
}

// Filled reports whether every blank holds a choice.
func (a *DragBlank) Filled() bool {
	for _, id := range a.blankIDs {
		if a.assigned[id] == "" {
			return false
		}
	}
	return true
}

func (a *DragBlank) Snapshot() Snapshot {
	slots := make([]BlankSlot, len(a.blankIDs))
	for i, id := range a.blankIDs {
		slots[i] = BlankSlot{BlankID: id, ChoiceID: a.assigned[id]}
	}
	return Snapshot{
		Type:     models.DragBlank,
		Blanks:   slots,
		Unplaced: a.Unplaced(),
	}
}

func (a *DragBlank) blankOf(list string) (string, bool) {
	if !strings.HasPrefix(list, BlankListPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(list, BlankListPrefix)
	for _, b := range a.blankIDs {
		if b == id {
			return id, true
		}
	}
	return "", false
}
