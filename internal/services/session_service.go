package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/session-service/internal/cache"
	"github.com/studyhall/session-service/internal/events"
	"github.com/studyhall/session-service/internal/models"
	"github.com/studyhall/session-service/internal/repositories"
	"github.com/studyhall/session-service/internal/session"
	"github.com/studyhall/session-service/internal/utils"
	"github.com/studyhall/session-service/internal/validator"
)

// SessionService drives assessment sessions: it owns one controller per
// live attempt, feeds timing ticks, and routes finished attempts to the
// repository and the event bus. The controllers themselves stay free of
// I/O.
type SessionService interface {
	Start(ctx context.Context, req *StartSessionRequest, studentID string) (*SessionResponse, error)
	RecordAnswer(ctx context.Context, sessionID string, req *RecordAnswerRequest, studentID string) (*models.SessionSnapshot, error)
	Navigate(ctx context.Context, sessionID string, req *NavigateRequest, studentID string) (*models.SessionSnapshot, error)
	Heartbeat(ctx context.Context, sessionID string, studentID string) (*models.SessionSnapshot, error)
	Submit(ctx context.Context, sessionID string, studentID string) (*models.ResultReport, error)
	GetSnapshot(ctx context.Context, sessionID string, studentID string) (*models.SessionSnapshot, error)
	GetResult(ctx context.Context, sessionID string, studentID string) (*models.ResultReport, error)

	// SweepExpired ticks every live session against now, finalizing any
	// that passed their deadline. Returns how many expired.
	SweepExpired(ctx context.Context, now time.Time) int
}

type StartSessionRequest struct {
	Definition models.AssessmentDefinition `json:"definition" validate:"required"`
}

type RecordAnswerRequest struct {
	QuestionID uint               `json:"question_id" validate:"required"`
	Answer     models.AnswerValue `json:"answer" validate:"required"`
}

type NavigateRequest struct {
	Direction string `json:"direction" validate:"omitempty,oneof=next previous"`
	Index     *int   `json:"index"`
}

type SessionResponse struct {
	SessionID string                 `json:"session_id"`
	Snapshot  models.SessionSnapshot `json:"snapshot"`
}

type liveSession struct {
	controller *session.Controller
	studentID  string
}

type sessionService struct {
	mu   sync.RWMutex
	live map[string]*liveSession

	repo      repositories.Repository
	publisher events.EventPublisher
	snapshots cache.SnapshotCache
	logger    utils.Logger
	validator *validator.Validator

	snapshotTTL time.Duration
	clock       func() time.Time
}

func NewSessionService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	snapshots cache.SnapshotCache,
	logger utils.Logger,
	v *validator.Validator,
	snapshotTTL time.Duration,
) SessionService {
	return &sessionService{
		live:        make(map[string]*liveSession),
		repo:        repo,
		publisher:   publisher,
		snapshots:   snapshots,
		logger:      logger,
		validator:   v,
		snapshotTTL: snapshotTTL,
		clock:       time.Now,
	}
}

// ===== CORE SESSION OPERATIONS =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest, studentID string) (*SessionResponse, error) {
	s.logger.Info("Starting assessment session",
		"assessment_id", req.Definition.ID,
		"student_id", studentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := s.validator.ValidateDefinition(&req.Definition); err != nil {
		return nil, err
	}

	now := s.clock()
	controller := session.NewController(uuid.NewString())
	if err := controller.Start(&req.Definition, now); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.live[controller.ID()] = &liveSession{controller: controller, studentID: studentID}
	s.mu.Unlock()

	s.publishStarted(ctx, controller, studentID)

	snapshot := controller.Snapshot(now)
	s.cacheSnapshot(ctx, snapshot)

	s.logger.Info("Assessment session started",
		"session_id", controller.ID(),
		"assessment_id", req.Definition.ID,
		"question_count", snapshot.TotalQuestions,
		"deadline", controller.Deadline())

	return &SessionResponse{SessionID: controller.ID(), Snapshot: snapshot}, nil
}

func (s *sessionService) RecordAnswer(ctx context.Context, sessionID string, req *RecordAnswerRequest, studentID string) (*models.SessionSnapshot, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ls, err := s.liveSession(sessionID, studentID, "record_answer")
	if err != nil {
		return nil, err
	}

	// Route overdue sessions to Expired before accepting the write.
	now := s.clock()
	s.tickSession(ctx, ls)

	if err := ls.controller.RecordAnswer(req.QuestionID, req.Answer); err != nil {
		return nil, err
	}

	snapshot := ls.controller.Snapshot(now)
	s.cacheSnapshot(ctx, snapshot)
	return &snapshot, nil
}

func (s *sessionService) Navigate(ctx context.Context, sessionID string, req *NavigateRequest, studentID string) (*models.SessionSnapshot, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ls, err := s.liveSession(sessionID, studentID, "navigate")
	if err != nil {
		return nil, err
	}

	now := s.clock()
	s.tickSession(ctx, ls)

	switch {
	case req.Index != nil:
		err = ls.controller.JumpTo(*req.Index)
	case req.Direction == "previous":
		err = ls.controller.Previous()
	default:
		err = ls.controller.Next()
	}
	if err != nil {
		return nil, err
	}

	snapshot := ls.controller.Snapshot(now)
	s.cacheSnapshot(ctx, snapshot)
	return &snapshot, nil
}

// Heartbeat is the periodic tick from the client: it checks the deadline
// and returns a fresh projection for rendering the countdown.
func (s *sessionService) Heartbeat(ctx context.Context, sessionID string, studentID string) (*models.SessionSnapshot, error) {
	ls, err := s.liveSession(sessionID, studentID, "heartbeat")
	if err != nil {
		return nil, err
	}

	now := s.clock()
	s.tickSession(ctx, ls)

	snapshot := ls.controller.Snapshot(now)
	s.cacheSnapshot(ctx, snapshot)
	return &snapshot, nil
}

func (s *sessionService) Submit(ctx context.Context, sessionID string, studentID string) (*models.ResultReport, error) {
	s.logger.Info("Submitting assessment session",
		"session_id", sessionID,
		"student_id", studentID)

	ls, err := s.liveSession(sessionID, studentID, "submit")
	if err != nil {
		return nil, err
	}

	// An overdue session must expire rather than accept a late submit,
	// even if the sweeper missed it.
	s.tickSession(ctx, ls)

	report, err := ls.controller.Submit(s.clock())
	if err != nil {
		return nil, err
	}

	s.finalizeSession(ctx, ls)

	s.logger.Info("Assessment session submitted",
		"session_id", sessionID,
		"score_percentage", report.ScorePercentage)

	return report, nil
}

// ===== READ OPERATIONS =====

func (s *sessionService) GetSnapshot(ctx context.Context, sessionID string, studentID string) (*models.SessionSnapshot, error) {
	ls, err := s.liveSession(sessionID, studentID, "read")
	if err == nil {
		snapshot := ls.controller.Snapshot(s.clock())
		return &snapshot, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	// Not live anymore; try the cache, then the finished record.
	if cached, cacheErr := s.snapshots.Get(ctx, sessionID); cacheErr == nil {
		return cached, nil
	}
	record, err := s.getRecord(ctx, sessionID, studentID, "read")
	if err != nil {
		return nil, err
	}
	return recordSnapshot(record), nil
}

func (s *sessionService) GetResult(ctx context.Context, sessionID string, studentID string) (*models.ResultReport, error) {
	s.mu.RLock()
	ls, live := s.live[sessionID]
	s.mu.RUnlock()

	if live {
		if ls.studentID != studentID {
			return nil, NewPermissionError(studentID, sessionID, "read_result", "not owned by student")
		}
		if report, ok := ls.controller.Result(); ok {
			return report, nil
		}
		return nil, ErrResultNotReady
	}

	record, err := s.getRecord(ctx, sessionID, studentID, "read_result")
	if err != nil {
		return nil, err
	}
	return recordReport(record)
}

// ===== EXPIRY SWEEP =====

func (s *sessionService) SweepExpired(ctx context.Context, now time.Time) int {
	s.mu.RLock()
	candidates := make([]*liveSession, 0, len(s.live))
	for _, ls := range s.live {
		candidates = append(candidates, ls)
	}
	s.mu.RUnlock()

	expired := 0
	for _, ls := range candidates {
		if ls.controller.Tick(now) {
			s.finalizeSession(ctx, ls)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Info("Expired overdue sessions", "count", expired)
	}
	return expired
}
