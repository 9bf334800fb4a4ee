package events

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/practice-engine/internal/session"
)

var notificationTypes = map[session.NotificationKind]EventType{
	session.NotifyStarted:          EventSessionStarted,
	session.NotifyValidationFailed: EventSessionValidationFailed,
	session.NotifyExpired:          EventSessionExpired,
	session.NotifySubmitted:        EventSessionSubmitted,
}

// SessionNotifier publishes session notifications as events. Publish
// failures are logged and never reach the session.
type SessionNotifier struct {
	publisher EventPublisher
	logger    *slog.Logger
}

func NewSessionNotifier(publisher EventPublisher, logger *slog.Logger) *SessionNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionNotifier{publisher: publisher, logger: logger}
}

func (n *SessionNotifier) Notify(ctx context.Context, note session.Notification) {
	eventType, ok := notificationTypes[note.Kind]
	if !ok {
		n.logger.Warn("Unknown session notification", "kind", note.Kind)
		return
	}

	event := NewSessionEvent(eventType, SessionEventData{
		SessionID:  note.SessionID,
		ExerciseID: note.ExerciseID,
		Type:       note.Type,
		Message:    note.Message,
		Rule:       note.Rule,
		Score:      note.Score,
	})
	if err := n.publisher.PublishSessionEvent(ctx, event); err != nil {
		n.logger.Warn("Session notification not published",
			"session_id", note.SessionID,
			"event_type", eventType,
			"error", err)
	}
}
