package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/session-service/internal/models"
)

// EventType represents the session lifecycle events downstream consumers
// (notification, analytics, gradebook sync) subscribe to.
type EventType string

const (
	EventSessionStarted   EventType = "session.started"
	EventSessionSubmitted EventType = "session.submitted"
	EventSessionExpired   EventType = "session.expired"
	EventSessionGraded    EventType = "session.graded"
)

// SessionEvent is the envelope for all session events
type SessionEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

const (
	eventSource  = "session-service"
	eventVersion = "1.0"
)

func newSessionEvent(eventType EventType, data interface{}) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

type SessionStartedEvent struct {
	SessionID    string     `json:"session_id"`
	AssessmentID uint       `json:"assessment_id"`
	StudentID    string     `json:"student_id"`
	StartedAt    time.Time  `json:"started_at"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

type SessionEndedEvent struct {
	SessionID    string               `json:"session_id"`
	AssessmentID uint                 `json:"assessment_id"`
	StudentID    string               `json:"student_id"`
	Status       models.SessionStatus `json:"status"`
	EndReason    string               `json:"end_reason"`
	EndedAt      time.Time            `json:"ended_at"`
}

type SessionGradedEvent struct {
	SessionID       string `json:"session_id"`
	AssessmentID    uint   `json:"assessment_id"`
	StudentID       string `json:"student_id"`
	ScorePercentage int    `json:"score_percentage"`
	PointsEarned    int    `json:"points_earned"`
	PointsPossible  int    `json:"points_possible"`
}

// NewSessionStartedEvent wraps a started payload in the event envelope.
func NewSessionStartedEvent(data SessionStartedEvent) *SessionEvent {
	return newSessionEvent(EventSessionStarted, data)
}

// NewSessionEndedEvent picks the submitted/expired event type from the
// terminal status.
func NewSessionEndedEvent(data SessionEndedEvent) *SessionEvent {
	eventType := EventSessionSubmitted
	if data.Status == models.SessionExpired {
		eventType = EventSessionExpired
	}
	return newSessionEvent(eventType, data)
}

func NewSessionGradedEvent(data SessionGradedEvent) *SessionEvent {
	return newSessionEvent(EventSessionGraded, data)
}
