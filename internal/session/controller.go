// Package session runs one exercise attempt: it owns the answer, the
// countdown and the submit flow, and serializes every operation on them.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/practice-engine/internal/answers"
	"github.com/SAP-F-2025/practice-engine/internal/archive"
	"github.com/SAP-F-2025/practice-engine/internal/models"
	"github.com/SAP-F-2025/practice-engine/internal/timer"
)

type State string

const (
	StateReady     State = "ready"
	StateRunning   State = "running"
	StateExpired   State = "expired"
	StateSubmitted State = "submitted"
)

var (
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrExpired          = errors.New("session time has expired")
	ErrLocked           = errors.New("session no longer accepts answer changes")
)

// Snapshot is a read-only view of a session for rendering.
type Snapshot struct {
	SessionID        string              `json:"session_id"`
	ExerciseID       string              `json:"exercise_id"`
	Type             models.ExerciseType `json:"type"`
	State            State               `json:"state"`
	SecondsLeft      int                 `json:"seconds_left"`
	TimeLimitSeconds int                 `json:"time_limit_seconds"`
	Clock            string              `json:"clock"`
	Submitted        bool                `json:"submitted"`
	Result           *models.Score       `json:"result,omitempty"`
	Answer           answers.Snapshot    `json:"answer"`
}

type Option func(*Controller)

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithClock(clock timer.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithPolicy(p Policy) Option {
	return func(c *Controller) { c.policy = p }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

func WithArchive(a archive.Archive) Option {
	return func(c *Controller) { c.archive = a }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller is the state machine of one session:
// ready -> running -> {submitted, expired}, expired -> submitted.
type Controller struct {
	mu sync.Mutex

	id      string
	def     *models.ExerciseDefinition
	variant *variant
	timer   *timer.Countdown
	state   State
	result  *models.Score

	policy    Policy
	clock     timer.Clock
	recorder  Recorder
	archive   archive.Archive
	notifier  Notifier
	observers []Observer
	logger    *slog.Logger
	now       func() time.Time
}

// New builds a session for def. The answer store and scoring function are
// chosen here from def.Type.
func New(id string, def *models.ExerciseDefinition, opts ...Option) (*Controller, error) {
	v, err := newVariant(def)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		id:       id,
		def:      def,
		variant:  v,
		state:    StateReady,
		policy:   DefaultPolicy(),
		clock:    timer.RealClock(),
		notifier: nopNotifier{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("session_id", id, "exercise_id", def.ID)

	c.timer = timer.NewCountdown(def.TimeLimitSeconds,
		timer.WithClock(c.clock),
		timer.WithTickHandler(c.onTick),
		timer.WithExpiryHandler(c.onExpire),
	)
	return c, nil
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) Definition() *models.ExerciseDefinition { return c.def }

// Start moves a ready session to running and starts its countdown. It does
// nothing in any other state.
func (c *Controller) Start(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.state != StateReady {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.state = StateRunning
	c.timer.Start()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Info("Session started", "time_limit", c.def.TimeLimitSeconds)
	c.notifier.Notify(ctx, c.notification(NotifyStarted, "", ""))
	c.publish(snap)
	return snap
}

// Apply feeds one answer event to the session. Events are refused with
// ErrLocked once the session is submitted or its time has run out.
func (c *Controller) Apply(ctx context.Context, ev answers.Event) (Snapshot, error) {
	c.mu.Lock()
	if c.state == StateSubmitted || c.expiredLocked() {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrLocked
	}

	changed, err := c.variant.answer.Apply(ev)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		return snap, err
	}
	if changed {
		c.publish(snap)
	} else {
		c.logger.Debug("Ignored answer event", "kind", ev.Kind)
	}
	return snap, nil
}

// Submit validates and scores the answer. It scores and records at most
// once per session; a failed validation leaves the session untouched.
func (c *Controller) Submit(ctx context.Context) (models.Score, error) {
	c.mu.Lock()
	if c.state == StateSubmitted {
		score := *c.result
		c.mu.Unlock()
		return score, ErrAlreadySubmitted
	}
	if c.expiredLocked() && !c.policy.AllowLateSubmit {
		c.mu.Unlock()
		return models.Score{}, ErrExpired
	}

	if verr := c.variant.check(); verr != nil {
		c.mu.Unlock()
		c.logger.Info("Submit rejected", "rule", verr.Rule)
		c.notifier.Notify(ctx, c.notification(NotifyValidationFailed, verr.Message, verr.Rule))
		return models.Score{}, verr
	}

	score := c.variant.score()
	c.result = &score
	c.state = StateSubmitted
	c.timer.Pause()

	var text string
	if c.variant.text != nil {
		text = c.variant.text()
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if c.recorder != nil {
		c.recorder.Record(ctx, c.def.ID, score.Percentage)
	}
	if c.variant.text != nil && c.archive != nil {
		sub := archive.NewSubmission(c.def.ID, c.def.Type, text, c.now())
		if err := c.archive.SaveWriting(ctx, sub); err != nil {
			c.logger.Warn("Failed to archive writing answer", "error", err)
		}
	}

	c.logger.Info("Session submitted", "score", score.Percentage)
	n := c.notification(NotifySubmitted, SubmittedMessage(c.def.Type, score), "")
	n.Score = &score
	c.notifier.Notify(ctx, n)
	c.publish(snap)
	return score, nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close stops the countdown of an abandoned session.
func (c *Controller) Close() {
	c.timer.Pause()
}

func (c *Controller) onTick(int) {
	c.publish(c.Snapshot())
}

func (c *Controller) onExpire() {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return
	}
	c.state = StateExpired
	snap := c.snapshotLocked()
	c.mu.Unlock()

	msg := "Your time has expired. Click the Submit button to see your score."
	if c.def.Type.IsWriting() {
		msg = "Your time has expired. Please submit your answer now."
	}
	if !c.policy.AllowLateSubmit {
		msg = "Your time has expired."
	}
	c.logger.Info("Session expired")
	c.notifier.Notify(context.Background(), c.notification(NotifyExpired, msg, ""))
	c.publish(snap)
}

// expiredLocked also covers a countdown that hit zero whose expiry callback
// has not run yet.
func (c *Controller) expiredLocked() bool {
	return c.state == StateExpired || (c.state == StateRunning && c.timer.Expired())
}

func (c *Controller) snapshotLocked() Snapshot {
	state := c.state
	if c.expiredLocked() {
		state = StateExpired
	}
	left := c.timer.SecondsLeft()
	snap := Snapshot{
		SessionID:        c.id,
		ExerciseID:       c.def.ID,
		Type:             c.def.Type,
		State:            state,
		SecondsLeft:      left,
		TimeLimitSeconds: c.timer.TotalSeconds(),
		Clock:            timer.Format(left),
		Submitted:        c.state == StateSubmitted,
		Answer:           c.variant.answer.Snapshot(),
	}
	if c.result != nil {
		score := *c.result
		snap.Result = &score
	}
	return snap
}

func (c *Controller) publish(snap Snapshot) {
	for _, o := range c.observers {
		o(snap)
	}
}

func (c *Controller) notification(kind NotificationKind, msg, rule string) Notification {
	return Notification{
		Kind:       kind,
		SessionID:  c.id,
		ExerciseID: c.def.ID,
		Type:       c.def.Type,
		Message:    msg,
		Rule:       rule,
	}
}

// SubmittedMessage is the confirmation shown after a successful submit.
func SubmittedMessage(t models.ExerciseType, score models.Score) string {
	switch t {
	case models.Summarize:
		return "Your summary has been submitted successfully!"
	case models.Essay:
		return "Your essay has been submitted successfully!"
	}
	return fmt.Sprintf("Your score: %.0f%%", score.Percentage)
}
