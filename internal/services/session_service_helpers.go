package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/studyhall/session-service/internal/events"
	"github.com/studyhall/session-service/internal/models"
	"github.com/studyhall/session-service/internal/repositories"
	"github.com/studyhall/session-service/internal/session"
)

// ===== LIVE SESSION LOOKUP =====

func (s *sessionService) liveSession(sessionID, studentID, action string) (*liveSession, error) {
	s.mu.RLock()
	ls, ok := s.live[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if ls.studentID != studentID {
		return nil, NewPermissionError(studentID, sessionID, action, "not owned by student")
	}
	return ls, nil
}

// tickSession checks one session's deadline and finalizes it if the tick
// forced expiry. Called before every mutating operation so an overdue
// session is routed to Expired instead of accepting late input.
func (s *sessionService) tickSession(ctx context.Context, ls *liveSession) {
	if ls.controller.Tick(s.clock()) {
		s.finalizeSession(ctx, ls)
	}
}

// ===== TERMINAL HANDLING =====

// finalizeSession runs after a controller reached a terminal status: it
// persists the record, publishes the lifecycle events and retires the live
// entry. The controller keeps serving reads until eviction completes.
func (s *sessionService) finalizeSession(ctx context.Context, ls *liveSession) {
	ctrl := ls.controller
	report, ok := ctrl.Result()
	if !ok {
		// finalize is only called by the CAS winner, so the report exists
		s.logger.Error("Session finalized without result", "session_id", ctrl.ID())
		return
	}

	record, err := buildSessionRecord(ls.studentID, ctrl, report)
	if err != nil {
		s.logger.LogError(err, "Failed to build session record", "session_id", ctrl.ID())
	} else if err := s.repo.Session().Create(ctx, record); err != nil {
		s.logger.LogError(err, "Failed to persist session record", "session_id", ctrl.ID())
	}

	s.publishEnded(ctx, ls, report)

	if err := s.snapshots.Delete(ctx, ctrl.ID()); err != nil {
		s.logger.Warn("Failed to drop cached snapshot", "session_id", ctrl.ID(), "error", err)
	}

	s.mu.Lock()
	delete(s.live, ctrl.ID())
	s.mu.Unlock()

	s.logger.Info("Session finalized",
		"session_id", ctrl.ID(),
		"status", ctrl.Status(),
		"end_reason", ctrl.EndReason(),
		"score_percentage", report.ScorePercentage)
}

func buildSessionRecord(studentID string, ctrl *session.Controller, report *models.ResultReport) (*models.SessionRecord, error) {
	answersJSON, err := json.Marshal(ctrl.Answers())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	return &models.SessionRecord{
		ID:              ctrl.ID(),
		AssessmentID:    report.AssessmentID,
		StudentID:       studentID,
		Status:          ctrl.Status(),
		StartedAt:       ctrl.StartedAt(),
		EndedAt:         ctrl.EndedAt(),
		Deadline:        ctrl.Deadline(),
		EndReason:       ctrl.EndReason(),
		ScorePercentage: report.ScorePercentage,
		PointsEarned:    report.PointsEarned,
		PointsPossible:  report.PointsPossible,
		Answers:         answersJSON,
		Report:          reportJSON,
	}, nil
}

// ===== EVENTS =====

func (s *sessionService) publishStarted(ctx context.Context, ctrl *session.Controller, studentID string) {
	event := events.NewSessionStartedEvent(events.SessionStartedEvent{
		SessionID:    ctrl.ID(),
		AssessmentID: ctrl.Definition().ID,
		StudentID:    studentID,
		StartedAt:    ctrl.StartedAt(),
		Deadline:     ctrl.Deadline(),
	})
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.LogError(err, "Failed to publish session started event", "session_id", ctrl.ID())
	}
}

func (s *sessionService) publishEnded(ctx context.Context, ls *liveSession, report *models.ResultReport) {
	ctrl := ls.controller

	ended := events.NewSessionEndedEvent(events.SessionEndedEvent{
		SessionID:    ctrl.ID(),
		AssessmentID: report.AssessmentID,
		StudentID:    ls.studentID,
		Status:       ctrl.Status(),
		EndReason:    ctrl.EndReason(),
		EndedAt:      ctrl.EndedAt(),
	})
	if err := s.publisher.PublishSessionEvent(ctx, ended); err != nil {
		s.logger.LogError(err, "Failed to publish session ended event", "session_id", ctrl.ID())
	}

	graded := events.NewSessionGradedEvent(events.SessionGradedEvent{
		SessionID:       ctrl.ID(),
		AssessmentID:    report.AssessmentID,
		StudentID:       ls.studentID,
		ScorePercentage: report.ScorePercentage,
		PointsEarned:    report.PointsEarned,
		PointsPossible:  report.PointsPossible,
	})
	if err := s.publisher.PublishSessionEvent(ctx, graded); err != nil {
		s.logger.LogError(err, "Failed to publish session graded event", "session_id", ctrl.ID())
	}
}

// ===== SNAPSHOTS AND RECORDS =====

func (s *sessionService) cacheSnapshot(ctx context.Context, snapshot models.SessionSnapshot) {
	if err := s.snapshots.Set(ctx, snapshot, s.snapshotTTL); err != nil {
		s.logger.Warn("Failed to cache snapshot", "session_id", snapshot.SessionID, "error", err)
	}
}

func (s *sessionService) getRecord(ctx context.Context, sessionID, studentID, action string) (*models.SessionRecord, error) {
	record, err := s.repo.Session().GetByID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session record: %w", err)
	}
	if record.StudentID != studentID {
		return nil, NewPermissionError(studentID, sessionID, action, "not owned by student")
	}
	return record, nil
}

// recordSnapshot projects a finished record into the same shape live
// sessions use, so clients render both uniformly.
func recordSnapshot(record *models.SessionRecord) *models.SessionSnapshot {
	started := record.StartedAt
	snap := &models.SessionSnapshot{
		SessionID:    record.ID,
		AssessmentID: record.AssessmentID,
		Status:       record.Status,
		StartedAt:    &started,
		Deadline:     record.Deadline,
	}

	var report models.ResultReport
	if err := json.Unmarshal(record.Report, &report); err == nil {
		snap.TotalQuestions = len(report.Questions)
		snap.AnsweredFlags = make([]bool, len(report.Questions))
		for i, qr := range report.Questions {
			snap.AnsweredFlags[i] = qr.Answered
			if qr.Answered {
				snap.AnsweredCount++
			}
		}
	}
	return snap
}

func recordReport(record *models.SessionRecord) (*models.ResultReport, error) {
	var report models.ResultReport
	if err := json.Unmarshal(record.Report, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored report: %w", err)
	}
	return &report, nil
}

// ===== SWEEPER =====

// RunSweeper drives the expiry check for every live session until ctx is
// cancelled. It fires once immediately so sessions that went overdue while
// the process was down are expired at startup, then on every interval.
func RunSweeper(ctx context.Context, svc SessionService, interval time.Duration) {
	svc.SweepExpired(ctx, time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			svc.SweepExpired(ctx, now)
		}
	}
}
