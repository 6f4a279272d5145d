package models

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionNotStarted SessionStatus = "not_started"
	SessionActive     SessionStatus = "active"
	SessionSubmitted  SessionStatus = "submitted"
	SessionExpired    SessionStatus = "expired"
)

// Terminal reports whether no further mutation is possible.
func (s SessionStatus) Terminal() bool {
	return s == SessionSubmitted || s == SessionExpired
}

const (
	SessionEndReasonSubmitted = "submitted"
	SessionEndReasonTimeout   = "time_out"
)

// SessionSnapshot is the read-only projection handed to the presentation
// layer. All state changes go through the controller operations; this is
// just what a renderer needs.
type SessionSnapshot struct {
	SessionID            string        `json:"session_id"`
	AssessmentID         uint          `json:"assessment_id"`
	Status               SessionStatus `json:"status"`
	CurrentQuestionIndex int           `json:"current_question_index"`
	TotalQuestions       int           `json:"total_questions"`
	AnsweredCount        int           `json:"answered_count"`
	AnsweredFlags        []bool        `json:"answered_flags"`
	RemainingSeconds     *int          `json:"remaining_seconds,omitempty"` // nil when untimed
	StartedAt            *time.Time    `json:"started_at,omitempty"`
	Deadline             *time.Time    `json:"deadline,omitempty"`
}

// SessionRecord is the persistence row written once a session terminates.
// Live sessions are held in memory and cached in Redis; only finished
// attempts reach the database.
type SessionRecord struct {
	ID           string        `json:"id" gorm:"primaryKey;size:36"`
	AssessmentID uint          `json:"assessment_id" gorm:"not null;index"`
	StudentID    string        `json:"student_id" gorm:"not null;index;size:255"`
	Status       SessionStatus `json:"status" gorm:"not null;index"`

	// Timing
	StartedAt time.Time  `json:"started_at" gorm:"not null"`
	EndedAt   time.Time  `json:"ended_at" gorm:"not null"`
	Deadline  *time.Time `json:"deadline"`
	EndReason string     `json:"end_reason" gorm:"size:32"`

	// Scoring
	ScorePercentage int `json:"score_percentage"`
	PointsEarned    int `json:"points_earned"`
	PointsPossible  int `json:"points_possible"`

	// Snapshots
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"` // map question id -> AnswerValue
	Report  datatypes.JSON `json:"report" gorm:"type:jsonb"`  // full ResultReport

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SessionRecord) TableName() string {
	return "session_records"
}
