package services

import (
	"errors"

	"github.com/SAP-F-2025/practice-engine/internal/answers"
	"github.com/SAP-F-2025/practice-engine/internal/catalog"
	apperrors "github.com/SAP-F-2025/practice-engine/internal/errors"
	"github.com/SAP-F-2025/practice-engine/internal/session"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")

	ErrExerciseNotFound = catalog.ErrNotFound
	ErrSessionNotFound  = errors.New("session not found")

	ErrSessionSubmitted = session.ErrAlreadySubmitted
	ErrSessionExpired   = session.ErrExpired
	ErrSessionLocked    = session.ErrLocked
	ErrUnsupportedEvent = answers.ErrUnsupportedEvent
)

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrExerciseNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsValidation checks if error represents a user-correctable failure
func IsValidation(err error) bool {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var ves apperrors.ValidationErrors
	return errors.As(err, &ves)
}

// IsConflict checks if the session state forbids the operation
func IsConflict(err error) bool {
	return errors.Is(err, ErrSessionSubmitted) ||
		errors.Is(err, ErrSessionLocked)
}

// IsExpired checks if the session timer blocks the operation
func IsExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// IsBadRequest checks if the request itself was malformed
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrUnsupportedEvent)
}

// ValidationRule returns the rule of a submit validation failure
func ValidationRule(err error) (string, string, bool) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return ve.Rule, ve.Message, true
	}
	return "", "", false
}
