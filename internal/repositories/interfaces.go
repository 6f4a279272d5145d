package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/studyhall/session-service/internal/models"
)

// SessionRepository persists finished attempts. Live sessions never touch
// the database; a record is written exactly once, at the terminal
// transition.
type SessionRepository interface {
	Create(ctx context.Context, record *models.SessionRecord) error
	GetByID(ctx context.Context, id string) (*models.SessionRecord, error)
	List(ctx context.Context, filters SessionFilters) ([]*models.SessionRecord, int64, error)
	GetByStudent(ctx context.Context, studentID string, filters SessionFilters) ([]*models.SessionRecord, int64, error)
	GetByAssessment(ctx context.Context, assessmentID uint, filters SessionFilters) ([]*models.SessionRecord, int64, error)
	GetStats(ctx context.Context, assessmentID uint) (*SessionStats, error)
}

// Repository aggregates the data access interfaces
type Repository interface {
	Session() SessionRepository
}

type SessionFilters struct {
	Status       *models.SessionStatus `json:"status"`
	StudentID    *string               `json:"student_id"`
	AssessmentID *uint                 `json:"assessment_id"`
	DateFrom     *time.Time            `json:"date_from"`
	DateTo       *time.Time            `json:"date_to"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
	SortBy       string                `json:"sort_by"`    // "ended_at", "score_percentage"
	SortOrder    string                `json:"sort_order"` // "asc", "desc"
}

type SessionStats struct {
	TotalSessions   int                          `json:"total_sessions"`
	StatusBreakdown map[models.SessionStatus]int `json:"status_breakdown"`
	AverageScore    float64                      `json:"average_score"`
	ExpiredRate     float64                      `json:"expired_rate"`
}

// IsNotFoundError checks whether err means the record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
