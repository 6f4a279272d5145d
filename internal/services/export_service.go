package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/studyhall/session-service/internal/models"
	"github.com/studyhall/session-service/internal/repositories"
	"github.com/studyhall/session-service/internal/utils"
)

// ExportService renders finished session records as downloadable files for
// instructors (gradebook review, offline archival).
type ExportService interface {
	ExportSessionsToCSV(ctx context.Context, assessmentID uint, filters repositories.SessionFilters) ([]byte, error)
	ExportSessionsToExcel(ctx context.Context, assessmentID uint, filters repositories.SessionFilters) ([]byte, error)
	GetSessionStats(ctx context.Context, assessmentID uint) (*repositories.SessionStats, error)
}

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

var exportHeaders = []string{
	"Session ID", "Student ID", "Status", "Started At", "Ended At",
	"End Reason", "Points Earned", "Points Possible", "Score (%)",
}

const exportTimeFormat = "2006-01-02 15:04:05"

// ===== EXPORT OPERATIONS =====

func (s *exportService) ExportSessionsToCSV(ctx context.Context, assessmentID uint, filters repositories.SessionFilters) ([]byte, error) {
	records, err := s.getSessionsForExport(ctx, assessmentID, filters)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		if err := writer.Write(sessionToCSVRow(record)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	s.logger.Info("Exported sessions to CSV",
		"assessment_id", assessmentID,
		"session_count", len(records))

	return []byte(buf.String()), nil
}

func (s *exportService) ExportSessionsToExcel(ctx context.Context, assessmentID uint, filters repositories.SessionFilters) ([]byte, error) {
	records, err := s.getSessionsForExport(ctx, assessmentID, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Sessions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, record := range records {
		for colIndex, value := range sessionToCSVRow(record) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported sessions to Excel",
		"assessment_id", assessmentID,
		"session_count", len(records))

	return buf.Bytes(), nil
}

func (s *exportService) GetSessionStats(ctx context.Context, assessmentID uint) (*repositories.SessionStats, error) {
	stats, err := s.repo.Session().GetStats(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session stats: %w", err)
	}
	return stats, nil
}

// ===== HELPER FUNCTIONS =====

func (s *exportService) getSessionsForExport(ctx context.Context, assessmentID uint, filters repositories.SessionFilters) ([]*models.SessionRecord, error) {
	if filters.SortBy == "" {
		filters.SortBy = "ended_at"
		filters.SortOrder = "asc"
	}

	records, _, err := s.repo.Session().GetByAssessment(ctx, assessmentID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions for export: %w", err)
	}
	return records, nil
}

func sessionToCSVRow(record *models.SessionRecord) []string {
	return []string{
		record.ID,
		record.StudentID,
		string(record.Status),
		record.StartedAt.Format(exportTimeFormat),
		record.EndedAt.Format(exportTimeFormat),
		record.EndReason,
		strconv.Itoa(record.PointsEarned),
		strconv.Itoa(record.PointsPossible),
		strconv.Itoa(record.ScorePercentage),
	}
}
