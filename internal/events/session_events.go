package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/practice-engine/internal/models"
)

// EventType represents the kinds of session events published
type EventType string

const (
	EventSessionStarted          EventType = "session.started"
	EventSessionValidationFailed EventType = "session.validation_failed"
	EventSessionExpired          EventType = "session.expired"
	EventSessionSubmitted        EventType = "session.submitted"
)

const (
	EventSource  = "practice-engine"
	EventVersion = "1.0"
)

// SessionEvent is the envelope of every published event
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      SessionEventData       `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionEventData struct {
	SessionID  string              `json:"session_id"`
	ExerciseID string              `json:"exercise_id"`
	Type       models.ExerciseType `json:"exercise_type"`
	Message    string              `json:"message,omitempty"`
	Rule       string              `json:"rule,omitempty"`
	Score      *models.Score       `json:"score,omitempty"`
}

// NewSessionEvent stamps an event with a fresh id and the current time
func NewSessionEvent(eventType EventType, data SessionEventData) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		Data:      data,
	}
}
