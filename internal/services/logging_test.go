package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/SAP-F-2025/practice-engine/internal/errors"
	"github.com/SAP-F-2025/practice-engine/internal/session"
)

func TestOperationStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		level  slog.Level
		status string
	}{
		{"success", nil, slog.LevelInfo, "success"},
		{"validation", apperrors.NewValidationErrorWithRule("answer", "x", apperrors.RuleIncompleteAnswer, nil), slog.LevelWarn, "validation_error"},
		{"expired", session.ErrExpired, slog.LevelWarn, "expired"},
		{"conflict", fmt.Errorf("wrapped: %w", session.ErrAlreadySubmitted), slog.LevelWarn, "conflict"},
		{"not found", ErrSessionNotFound, slog.LevelInfo, "not_found"},
		{"bad request", ErrUnsupportedEvent, slog.LevelWarn, "bad_request"},
		{"unexpected", errors.New("boom"), slog.LevelError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, status := operationStatus(tt.err)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestServiceLogger_LogOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewServiceLogger(slog.New(slog.NewTextHandler(&buf, nil)), LogConfig{Service: "practice", Component: "sessions"})

	ctx := WithRequestID(context.Background(), "req-1")
	err := apperrors.NewValidationErrorWithRule("text", "too short", apperrors.RuleBelowMinWords, nil)
	logger.LogOperation(ctx, "submit", "sess-1", "ex-1", 5*time.Millisecond, err)

	out := buf.String()
	assert.Contains(t, out, "submit operation validation_error")
	assert.Contains(t, out, "session_id=sess-1")
	assert.Contains(t, out, "exercise_id=ex-1")
	assert.Contains(t, out, "rule=below_min_words")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "service=practice")
}

func TestIsNotFound_WrappedExerciseError(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrExerciseNotFound)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))

	_, _, ok := ValidationRule(err)
	assert.False(t, ok)
}
