package session

import (
	"context"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

type NotificationKind string

const (
	NotifyStarted          NotificationKind = "started"
	NotifyValidationFailed NotificationKind = "validation_failed"
	NotifyExpired          NotificationKind = "expired"
	NotifySubmitted        NotificationKind = "submitted"
)

// Notification is a discrete user-facing message about a session.
type Notification struct {
	Kind       NotificationKind    `json:"kind"`
	SessionID  string              `json:"session_id"`
	ExerciseID string              `json:"exercise_id"`
	Type       models.ExerciseType `json:"type"`
	Message    string              `json:"message"`
	Rule       string              `json:"rule,omitempty"`
	Score      *models.Score       `json:"score,omitempty"`
}

// Notifier receives session notifications. Implementations must not call
// back into the session.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Observer receives a snapshot after every state change and timer tick.
type Observer func(Snapshot)

// Recorder stores the score of a submission.
type Recorder interface {
	Record(ctx context.Context, exerciseID string, score float64) models.ProgressRecord
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) {}
