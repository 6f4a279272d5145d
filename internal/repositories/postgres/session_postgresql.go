package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/studyhall/session-service/internal/models"
	"github.com/studyhall/session-service/internal/repositories"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s *SessionPostgreSQL) Create(ctx context.Context, record *models.SessionRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id string) (*models.SessionRecord, error) {
	var record models.SessionRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *SessionPostgreSQL) List(ctx context.Context, filters repositories.SessionFilters) ([]*models.SessionRecord, int64, error) {
	var records []*models.SessionRecord
	var total int64

	// apply filters first
	query := s.db.WithContext(ctx).Model(&models.SessionRecord{})
	query = s.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then pagination and sorting
	query = s.applyPaginationAndSort(query, filters)

	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s *SessionPostgreSQL) GetByStudent(ctx context.Context, studentID string, filters repositories.SessionFilters) ([]*models.SessionRecord, int64, error) {
	filters.StudentID = &studentID
	return s.List(ctx, filters)
}

func (s *SessionPostgreSQL) GetByAssessment(ctx context.Context, assessmentID uint, filters repositories.SessionFilters) ([]*models.SessionRecord, int64, error) {
	filters.AssessmentID = &assessmentID
	return s.List(ctx, filters)
}

func (s *SessionPostgreSQL) GetStats(ctx context.Context, assessmentID uint) (*repositories.SessionStats, error) {
	var rows []struct {
		Status models.SessionStatus
		Count  int
		Avg    float64
	}
	err := s.db.WithContext(ctx).
		Model(&models.SessionRecord{}).
		Select("status, count(*) as count, coalesce(avg(score_percentage), 0) as avg").
		Where("assessment_id = ?", assessmentID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate session stats: %w", err)
	}

	stats := &repositories.SessionStats{
		StatusBreakdown: make(map[models.SessionStatus]int),
	}
	var scoreSum float64
	for _, row := range rows {
		stats.TotalSessions += row.Count
		stats.StatusBreakdown[row.Status] = row.Count
		scoreSum += row.Avg * float64(row.Count)
	}
	if stats.TotalSessions > 0 {
		stats.AverageScore = scoreSum / float64(stats.TotalSessions)
		stats.ExpiredRate = float64(stats.StatusBreakdown[models.SessionExpired]) / float64(stats.TotalSessions)
	}
	return stats, nil
}

func (s *SessionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.AssessmentID != nil {
		query = query.Where("assessment_id = ?", *filters.AssessmentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("ended_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("ended_at <= ?", *filters.DateTo)
	}
	return query
}

func (s *SessionPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.SessionFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "ended_at", "score_percentage", "started_at":
	default:
		sortBy = "ended_at"
	}
	sortOrder := "desc"
	if filters.SortOrder == "asc" {
		sortOrder = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

// RepositoryManager wires the concrete stores behind the aggregate interface
type RepositoryManager struct {
	session repositories.SessionRepository
}

func NewRepositoryManager(db *gorm.DB) repositories.Repository {
	return &RepositoryManager{
		session: NewSessionPostgreSQL(db),
	}
}

func (r *RepositoryManager) Session() repositories.SessionRepository {
	return r.session
}
