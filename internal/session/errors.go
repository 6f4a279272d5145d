package session

import "errors"

// ===== STATE ERRORS =====
// The requested operation is invalid for the session's current status.
// Callers treat these as recoverable no-ops, never as faults.

var (
	ErrAlreadyStarted  = errors.New("session already started")
	ErrAlreadyTerminal = errors.New("session already submitted or expired")
	ErrNotActive       = errors.New("session is not active")
)

// ===== VALIDATION ERRORS =====
// Caller-supplied input is inconsistent with the assessment definition.

var (
	ErrInvalidQuestion     = errors.New("question is not part of the assessment")
	ErrInvalidAnswerType   = errors.New("answer value does not match question type")
	ErrOutOfRange          = errors.New("question index out of range")
	ErrMalformedAssessment = errors.New("malformed assessment definition")
)

// IsStateError reports whether err means the operation was legal input for
// the wrong session state.
func IsStateError(err error) bool {
	return errors.Is(err, ErrAlreadyStarted) ||
		errors.Is(err, ErrAlreadyTerminal) ||
		errors.Is(err, ErrNotActive)
}

// IsValidationError reports whether err means the caller supplied input that
// does not fit the assessment definition.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidQuestion) ||
		errors.Is(err, ErrInvalidAnswerType) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrMalformedAssessment)
}
