package answers

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func move(srcList string, srcIdx int, dstList string, dstIdx int) Move {
	return Move{SourceList: srcList, SourceIndex: srcIdx, DestList: dstList, DestIndex: dstIdx}
}

func TestReorder_NewPlacesEverythingInSource(t *testing.T) {
	r := NewReorder([]string{"S1", "S2", "S3"})

	assert.Equal(t, []string{"S1", "S2", "S3"}, r.List(ListSource))
	assert.Empty(t, r.List(ListTarget))
}

func TestReorder_Move(t *testing.T) {
	tests := []struct {
		name       string
		moves      []Move
		wantSource []string
		wantTarget []string
	}{
		{
			name:       "source to empty target",
			moves:      []Move{move(ListSource, 1, ListTarget, 0)},
			wantSource: []string{"S1", "S3", "S4"},
			wantTarget: []string{"S2"},
		},
		{
			name: "insert at front of target",
			moves: []Move{
				move(ListSource, 0, ListTarget, 0),
				move(ListSource, 0, ListTarget, 0),
			},
			wantSource: []string{"S3", "S4"},
			wantTarget: []string{"S2", "S1"},
		},
		{
			name:       "forward within one list",
			moves:      []Move{move(ListSource, 0, ListSource, 2)},
			wantSource: []string{"S2", "S3", "S1", "S4"},
		},
		{
			name:       "backward within one list",
			moves:      []Move{move(ListSource, 3, ListSource, 1)},
			wantSource: []string{"S1", "S4", "S2", "S3"},
		},
		{
			name:       "to the end of the same list",
			moves:      []Move{move(ListSource, 1, ListSource, 3)},
			wantSource: []string{"S1", "S3", "S4", "S2"},
		},
		{
			name: "target back to source",
			moves: []Move{
				move(ListSource, 0, ListTarget, 0),
				move(ListSource, 0, ListTarget, 1),
				move(ListTarget, 0, ListSource, 1),
			},
			wantSource: []string{"S3", "S1", "S4"},
			wantTarget: []string{"S2"},
		},
		{
			name:       "destination index past the end is clamped",
			moves:      []Move{move(ListSource, 0, ListTarget, 7)},
			wantSource: []string{"S2", "S3", "S4"},
			wantTarget: []string{"S1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReorder([]string{"S1", "S2", "S3", "S4"})
			for _, m := range tt.moves {
				require.True(t, r.Move(m))
			}
			assert.Equal(t, tt.wantSource, r.List(ListSource))
			if tt.wantTarget == nil {
				assert.Empty(t, r.List(ListTarget))
			} else {
				assert.Equal(t, tt.wantTarget, r.List(ListTarget))
			}
		})
	}
}

func TestReorder_IgnoredMoves(t *testing.T) {
	r := NewReorder([]string{"S1", "S2"})

	assert.False(t, r.Move(move(ListSource, 1, ListSource, 1)), "identical source and destination")
	assert.False(t, r.Move(move(ListTarget, 0, ListSource, 0)), "empty source position")
	assert.False(t, r.Move(move(ListSource, 5, ListTarget, 0)), "index out of range")
	assert.False(t, r.Move(move("sidebar", 0, ListTarget, 0)), "unknown list")
	assert.Equal(t, []string{"S1", "S2"}, r.List(ListSource))
}

func TestReorder_ApplyRejectsOtherEvents(t *testing.T) {
	r := NewReorder([]string{"S1"})

	_, err := r.Apply(Event{Kind: EventSelect, OptionID: "S1"})
	assert.ErrorIs(t, err, ErrUnsupportedEvent)

	_, err = r.Apply(Event{Kind: EventMove})
	assert.ErrorIs(t, err, ErrUnsupportedEvent)

	changed, err := r.Apply(Event{Kind: EventMove, Move: &Move{SourceList: ListSource, DestList: ListTarget}})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"S1"}, r.Snapshot().Target)
}

func TestReorder_RandomMovesKeepListsDense(t *testing.T) {
	ids := []string{"S1", "S2", "S3", "S4", "S5", "S6"}
	rng := rand.New(rand.NewSource(42))
	lists := []string{ListSource, ListTarget}

	for run := 0; run < 50; run++ {
		r := NewReorder(ids)
		for step := 0; step < 40; step++ {
			m := move(
				lists[rng.Intn(2)], rng.Intn(len(ids)+1)-1,
				lists[rng.Intn(2)], rng.Intn(len(ids)+2)-1,
			)
			r.Move(m)
			assertDense(t, r, fmt.Sprintf("run %d step %d after %+v", run, step, m))

			all := append(r.List(ListSource), r.List(ListTarget)...)
			sort.Strings(all)
			require.Equal(t, ids, all, "item ids must be preserved")
		}
	}
}

func assertDense(t *testing.T, r *Reorder, msg string) {
	t.Helper()
	positions := map[string][]int{}
	for _, p := range r.items {
		positions[p.List] = append(positions[p.List], p.Position)
	}
	for list, ps := range positions {
		sort.Ints(ps)
		for i, p := range ps {
			require.Equal(t, i, p, "%s: list %s positions %v", msg, list, ps)
		}
	}
}
