package services

import (
	"errors"
	"fmt"

	apperrors "github.com/studyhall/session-service/internal/errors"
	"github.com/studyhall/session-service/internal/session"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrResultNotReady   = errors.New("session has no result yet")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	StudentID string `json:"student_id"`
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	Reason    string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: student %s cannot %s session %s - %s",
		pe.StudentID, pe.Action, pe.SessionID, pe.Reason)
}

func NewPermissionError(studentID, sessionID, action, reason string) *PermissionError {
	return &PermissionError{
		StudentID: studentID,
		SessionID: sessionID,
		Action:    action,
		Reason:    reason,
	}
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrResultNotReady)
}

// IsStateError checks if error means a legal request hit the wrong session
// state; callers treat these as no-ops, not crashes.
func IsStateError(err error) bool {
	return session.IsStateError(err)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || session.IsValidationError(err) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsPermission checks if error represents a permission denial
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
