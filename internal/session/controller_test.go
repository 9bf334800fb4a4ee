package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/practice-engine/internal/answers"
	"github.com/SAP-F-2025/practice-engine/internal/archive"
	"github.com/SAP-F-2025/practice-engine/internal/cache"
	apperrors "github.com/SAP-F-2025/practice-engine/internal/errors"
	"github.com/SAP-F-2025/practice-engine/internal/ledger"
	"github.com/SAP-F-2025/practice-engine/internal/models"
	"github.com/SAP-F-2025/practice-engine/internal/timer"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) kinds() []NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]NotificationKind, len(r.sent))
	for i, n := range r.sent {
		out[i] = n.Kind
	}
	return out
}

func (r *recordingNotifier) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

type harness struct {
	ctx      context.Context
	clock    *timer.ManualClock
	ledger   *ledger.Ledger
	writing  *cache.MemoryCache
	notifier *recordingNotifier
}

func newHarness() *harness {
	ctx := context.Background()
	return &harness{
		ctx:      ctx,
		clock:    timer.NewManualClock(),
		ledger:   ledger.New(ctx, ledger.NewMemoryStore(), nil),
		writing:  cache.NewMemoryCache(),
		notifier: &recordingNotifier{},
	}
}

func (h *harness) session(t *testing.T, def *models.ExerciseDefinition, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{
		WithClock(h.clock),
		WithRecorder(h.ledger),
		WithArchive(archive.NewCacheArchive(h.writing)),
		WithNotifier(h.notifier),
	}, opts...)
	c, err := New("s-1", def, opts...)
	require.NoError(t, err)
	return c
}

// archived returns the writing text kept for exerciseID, if any.
func (h *harness) archived(exerciseID string) (models.WritingSubmission, bool) {
	var sub models.WritingSubmission
	err := h.writing.Get(context.Background(), archive.CacheKey(exerciseID), &sub)
	return sub, err == nil
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.clock.Advance(time.Second)
	}
}

func dragBlankDef() *models.ExerciseDefinition {
	return &models.ExerciseDefinition{
		ID:               "db-1",
		Type:             models.DragBlank,
		TimeLimitSeconds: 60,
		DragBlank: &models.DragBlankContent{
			Text:         "The [1] chased the [2].",
			Choices:      []models.Item{{ID: "A", Text: "cat"}, {ID: "B", Text: "mouse"}},
			CorrectOrder: []string{"A", "B"},
		},
	}
}

func multiDef() *models.ExerciseDefinition {
	return &models.ExerciseDefinition{
		ID:               "mc-1",
		Type:             models.MultiChoice,
		TimeLimitSeconds: 30,
		Choice: &models.ChoiceContent{Options: []models.Option{
			{ID: "X", IsCorrect: true},
			{ID: "Y", IsCorrect: true},
			{ID: "Z"},
		}},
	}
}

func reorderDef() *models.ExerciseDefinition {
	return &models.ExerciseDefinition{
		ID:   "ro-1",
		Type: models.Reorder,
		Reorder: &models.ReorderContent{
			Sentences:    []models.Item{{ID: "S1"}, {ID: "S2"}, {ID: "S3"}},
			CorrectOrder: []string{"S1", "S2", "S3"},
		},
	}
}

func placeBlank(t *testing.T, c *Controller, choiceIndex int, blank string) {
	t.Helper()
	_, err := c.Apply(context.Background(), answers.Event{Kind: answers.EventMove, Move: &answers.Move{
		SourceList: answers.ListChoices, SourceIndex: choiceIndex, DestList: answers.BlankList(blank),
	}})
	require.NoError(t, err)
}

func TestDragBlankSession_CorrectPlacement(t *testing.T) {
	h := newHarness()
	c := h.session(t, dragBlankDef())
	c.Start(h.ctx)

	placeBlank(t, c, 0, "1")
	placeBlank(t, c, 0, "2")

	score, err := c.Submit(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, score.Percentage)
	assert.Equal(t, StateSubmitted, c.State())
	assert.Equal(t, "Your score: 100%", h.notifier.last().Message)
}

func TestDragBlankSession_SwappedPlacement(t *testing.T) {
	h := newHarness()
	c := h.session(t, dragBlankDef())
	c.Start(h.ctx)

	placeBlank(t, c, 1, "1")
	placeBlank(t, c, 0, "2")

	score, err := c.Submit(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score.Percentage)
}

func TestMultiChoiceSession(t *testing.T) {
	h := newHarness()
	c := h.session(t, multiDef())
	c.Start(h.ctx)

	for _, id := range []string{"X", "Z"} {
		_, err := c.Apply(h.ctx, answers.Event{Kind: answers.EventToggle, OptionID: id})
		require.NoError(t, err)
	}

	score, err := c.Submit(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score.Percentage)
}

func TestReorderSession(t *testing.T) {
	h := newHarness()
	c := h.session(t, reorderDef())
	c.Start(h.ctx)

	for _, m := range []answers.Move{
		{SourceList: answers.ListSource, SourceIndex: 0, DestList: answers.ListTarget, DestIndex: 0},
		{SourceList: answers.ListSource, SourceIndex: 1, DestList: answers.ListTarget, DestIndex: 1},
		{SourceList: answers.ListSource, SourceIndex: 0, DestList: answers.ListTarget, DestIndex: 2},
	} {
		m := m
		_, err := c.Apply(h.ctx, answers.Event{Kind: answers.EventMove, Move: &m})
		require.NoError(t, err)
	}

	score, err := c.Submit(h.ctx)
	require.NoError(t, err)
	assert.InDelta(t, 16.67, score.Percentage, 0.01)
	assert.Equal(t, "Your score: 17%", h.notifier.last().Message)
}

func TestSubmit_IncompleteAnswerLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		def     *models.ExerciseDefinition
		message string
	}{
		{"drag blank", dragBlankDef(), MsgFillAllBlanks},
		{"multi choice", multiDef(), MsgSelectOptions},
		{"reorder", reorderDef(), MsgUseAllSentences},
		{"single choice", &models.ExerciseDefinition{
			ID: "sc-1", Type: models.SingleChoice,
			Choice: &models.ChoiceContent{Options: []models.Option{{ID: "a", IsCorrect: true}, {ID: "b"}}},
		}, MsgSelectOption},
		{"dropdown", &models.ExerciseDefinition{
			ID: "dd-1", Type: models.DropdownBlank,
			Dropdown: &models.DropdownContent{OptionsPerBlank: [][]models.Option{{{ID: "a", IsCorrect: true}}}},
		}, MsgFillAllBlanks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			c := h.session(t, tt.def)
			c.Start(h.ctx)

			_, err := c.Submit(h.ctx)

			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, apperrors.RuleIncompleteAnswer, verr.Rule)
			assert.Equal(t, StateRunning, c.State())
			assert.Equal(t, 0, h.ledger.Len())
			assert.Equal(t, NotifyValidationFailed, h.notifier.last().Kind)
		})
	}
}

func TestSubmit_OnlyOnce(t *testing.T) {
	h := newHarness()
	c := h.session(t, multiDef())
	c.Apply(h.ctx, answers.Event{Kind: answers.EventToggle, OptionID: "X"})
	c.Apply(h.ctx, answers.Event{Kind: answers.EventToggle, OptionID: "Y"})

	first, err := c.Submit(h.ctx)
	require.NoError(t, err)

	again, err := c.Submit(h.ctx)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, first, again)

	r, ok := h.ledger.Get("mc-1")
	require.True(t, ok)
	assert.Equal(t, 1, r.Attempts, "one ledger write per session")

	_, err = c.Apply(h.ctx, answers.Event{Kind: answers.EventToggle, OptionID: "Z"})
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, []string{"X", "Y"}, c.Snapshot().Answer.SelectedSet)
}

func TestSubmit_StopsTimer(t *testing.T) {
	h := newHarness()
	c := h.session(t, dragBlankDef())
	c.Start(h.ctx)
	placeBlank(t, c, 0, "1")
	placeBlank(t, c, 0, "2")
	h.tick(5)

	_, err := c.Submit(h.ctx)
	require.NoError(t, err)
	h.tick(120)

	snap := c.Snapshot()
	assert.Equal(t, 55, snap.SecondsLeft)
	assert.Equal(t, StateSubmitted, snap.State)
	assert.NotContains(t, h.notifier.kinds(), NotifyExpired)
}

func TestExpiry_LocksAnswerButAllowsLateSubmit(t *testing.T) {
	h := newHarness()
	c := h.session(t, dragBlankDef())
	c.Start(h.ctx)
	placeBlank(t, c, 0, "1")
	placeBlank(t, c, 0, "2")

	h.tick(60)
	assert.Equal(t, StateExpired, c.State())
	assert.Equal(t, NotifyExpired, h.notifier.last().Kind)

	_, err := c.Apply(h.ctx, answers.Event{Kind: answers.EventMove, Move: &answers.Move{
		SourceList: answers.BlankList("1"), DestList: answers.ListChoices,
	}})
	assert.ErrorIs(t, err, ErrLocked)

	c.Start(h.ctx)
	assert.Equal(t, StateExpired, c.State(), "expiry gates new starts")

	score, err := c.Submit(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, score.Percentage)
	assert.Equal(t, StateSubmitted, c.State())
}

func TestExpiry_PolicyForbidsLateSubmit(t *testing.T) {
	h := newHarness()
	c := h.session(t, multiDef(), WithPolicy(Policy{AllowLateSubmit: false}))
	c.Start(h.ctx)
	c.Apply(h.ctx, answers.Event{Kind: answers.EventToggle, OptionID: "X"})

	h.tick(30)

	_, err := c.Submit(h.ctx)
	assert.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, 0, h.ledger.Len())
}

func TestExpiry_FiresOnce(t *testing.T) {
	h := newHarness()
	c := h.session(t, multiDef())
	c.Start(h.ctx)
	h.tick(100)

	expired := 0
	for _, k := range h.notifier.kinds() {
		if k == NotifyExpired {
			expired++
		}
	}
	assert.Equal(t, 1, expired)
}

func TestStart_Idempotent(t *testing.T) {
	h := newHarness()
	c := h.session(t, multiDef())

	assert.Equal(t, StateReady, c.Snapshot().State)
	c.Start(h.ctx)
	c.Start(h.ctx)
	assert.Equal(t, 1, h.clock.Pending())
	assert.Equal(t, []NotificationKind{NotifyStarted}, h.notifier.kinds())
}

func TestObserverSeesTicksAndMutations(t *testing.T) {
	h := newHarness()
	var seen []Snapshot
	c := h.session(t, multiDef(), WithObserver(func(s Snapshot) { seen = append(seen, s) }))

	c.Start(h.ctx)
	h.tick(2)
	c.Apply(h.ctx, answers.Event{Kind: answers.EventToggle, OptionID: "X"})
	c.Apply(h.ctx, answers.Event{Kind: answers.EventToggle, OptionID: "nope"})

	require.Len(t, seen, 4, "start, two ticks and one effective change")
	assert.Equal(t, 28, seen[2].SecondsLeft)
	assert.Equal(t, "00:28", seen[2].Clock)
	assert.Equal(t, []string{"X"}, seen[3].Answer.SelectedSet)
}

func TestUnsupportedEvent(t *testing.T) {
	h := newHarness()
	c := h.session(t, multiDef())

	_, err := c.Apply(h.ctx, answers.Event{Kind: answers.EventSetText, Text: "hi"})
	assert.ErrorIs(t, err, answers.ErrUnsupportedEvent)
}

func TestNew_MissingContent(t *testing.T) {
	_, err := New("s", &models.ExerciseDefinition{ID: "x", Type: models.Reorder})
	assert.Error(t, err)

	_, err = New("s", &models.ExerciseDefinition{ID: "x", Type: "matching"})
	assert.Error(t, err)
}
