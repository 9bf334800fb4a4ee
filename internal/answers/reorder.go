package answers

import (
	"sort"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// Named lists of a reorder exercise.
const (
	ListSource = "source"
	ListTarget = "target"
)

// Placement locates one sentence: the list it is in and its position there.
type Placement struct {
	ItemID   string `json:"item_id"`
	List     string `json:"list"`
	Position int    `json:"position"`
}

// Reorder partitions the sentences across the source and target lists.
// Within each list positions are always a dense 0..n-1 permutation.
type Reorder struct {
	items []Placement
}

// NewReorder places every id in the source list in the given order.
func NewReorder(itemIDs []string) *Reorder {
	items := make([]Placement, len(itemIDs))
	for i, id := range itemIDs {
		items[i] = Placement{ItemID: id, List: ListSource, Position: i}
	}
	return &Reorder{items: items}
}

func (a *Reorder) Type() models.ExerciseType { return models.Reorder }

func (a *Reorder) Apply(ev Event) (bool, error) {
	if ev.Kind != EventMove || ev.Move == nil {
		return false, ErrUnsupportedEvent
	}
	return a.Move(*ev.Move), nil
}

// Move relocates the item at (SourceList, SourceIndex) to (DestList,
// DestIndex). It closes the gap in the source list first, then opens a slot
// in the destination list using the post-removal positions, so a move within
// one list is not shifted twice. DestIndex is clamped into the destination
// list. Moves naming an unknown list or an empty position are ignored.
func (a *Reorder) Move(m Move) bool {
	if !isReorderList(m.SourceList) || !isReorderList(m.DestList) {
		return false
	}
	if m.SourceList == m.DestList && m.SourceIndex == m.DestIndex {
		return false
	}

	moved := -1
	for i, it := range a.items {
		if it.List == m.SourceList && it.Position == m.SourceIndex {
			moved = i
			break
		}
	}
	if moved < 0 {
		return false
	}

	for i := range a.items {
		if i != moved && a.items[i].List == m.SourceList && a.items[i].Position > m.SourceIndex {
			a.items[i].Position--
		}
	}

	dest := m.DestIndex
	if size := a.lenExcluding(m.DestList, moved); dest > size {
		dest = size
	}
	if dest < 0 {
		dest = 0
	}

	for i := range a.items {
		if i != moved && a.items[i].List == m.DestList && a.items[i].Position >= dest {
			a.items[i].Position++
		}
	}

	a.items[moved].List = m.DestList
	a.items[moved].Position = dest
	return true
}

// List returns the ids of a list ordered by position.
func (a *Reorder) List(name string) []string {
	var in []Placement
	for _, it := range a.items {
		if it.List == name {
			in = append(in, it)
		}
	}
	sort.Slice(in, func(i, j int) bool { return in[i].Position < in[j].Position })

	ids := make([]string, len(in))
	for i, it := range in {
		ids[i] = it.ItemID
	}
	return ids
}

func (a *Reorder) Len() int { return len(a.items) }

func (a *Reorder) Snapshot() Snapshot {
	return Snapshot{
		Type:   models.Reorder,
		Source: a.List(ListSource),
		Target: a.List(ListTarget),
	}
}

func (a *Reorder) lenExcluding(list string, skip int) int {
	n := 0
	for i, it := range a.items {
		if i != skip && it.List == list {
			n++
		}
	}
	return n
}

func isReorderList(name string) bool {
	return name == ListSource || name == ListTarget
}
