package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/studyhall/session-service/internal/models"
)

// Status codes for the atomic state word. The Active -> terminal transition
// is a compare-and-set so a racing expiry tick and student submit cannot
// both grade: whichever wins produces the one ResultReport, the loser
// observes ErrAlreadyTerminal and does nothing further.
const (
	statusNotStarted int32 = iota
	statusActive
	statusSubmitted
	statusExpired
)

func statusModel(s int32) models.SessionStatus {
	switch s {
	case statusActive:
		return models.SessionActive
	case statusSubmitted:
		return models.SessionSubmitted
	case statusExpired:
		return models.SessionExpired
	default:
		return models.SessionNotStarted
	}
}

// Controller composes the timer, answer registry and navigator into the
// session state machine: NotStarted -> Active -> {Submitted, Expired}.
// The terminal states are frozen; after reaching one, no field changes
// except the one-time creation of the ResultReport inside the transition.
type Controller struct {
	id     string
	status atomic.Int32

	mu        sync.Mutex
	def       *models.AssessmentDefinition
	startedAt time.Time
	endedAt   time.Time
	endReason string
	timer     Timer
	registry  *AnswerRegistry
	nav       *Navigator
	report    *models.ResultReport
}

func NewController(id string) *Controller {
	return &Controller{id: id}
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) Status() models.SessionStatus {
	return statusModel(c.status.Load())
}

// Start validates the definition, fixes the start time and deadline, and
// moves the session to Active. The deadline, once set, is immutable for the
// life of the session.
func (c *Controller) Start(def *models.AssessmentDefinition, now time.Time) error {
	if err := ValidateDefinition(def); err != nil {
		return err
	}
	if !c.status.CompareAndSwap(statusNotStarted, statusActive) {
		return ErrAlreadyStarted
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var deadline *time.Time
	if def.TimeLimitSeconds != nil {
		d := now.Add(time.Duration(*def.TimeLimitSeconds) * time.Second)
		deadline = &d
	}

	c.def = def
	c.startedAt = now
	c.timer = NewTimer(deadline)
	c.registry = NewAnswerRegistry(def)
	c.nav = NewNavigator(len(def.Questions))
	return nil
}

// RecordAnswer stores the student's current answer for a question,
// last-write-wins. Valid only while Active.
func (c *Controller) RecordAnswer(questionID uint, value models.AnswerValue) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.Load() != statusActive {
		return ErrNotActive
	}
	return c.registry.Set(questionID, value)
}

func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.Load() != statusActive {
		return ErrNotActive
	}
	c.nav.Next()
	return nil
}

func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.Load() != statusActive {
		return ErrNotActive
	}
	c.nav.Previous()
	return nil
}

func (c *Controller) JumpTo(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.Load() != statusActive {
		return ErrNotActive
	}
	return c.nav.JumpTo(index)
}

// Tick checks the deadline against the supplied now, forcing the session to
// Expired and grading it once if overdue. It is idempotent and never errors;
// calling it on an untimed, unstarted or finished session is a no-op. The
// expired return reports whether this call performed the transition.
func (c *Controller) Tick(now time.Time) (expired bool) {
	if c.status.Load() != statusActive {
		return false
	}

	c.mu.Lock()
	overdue := c.timer.Expired(now)
	c.mu.Unlock()
	if !overdue {
		return false
	}

	if !c.status.CompareAndSwap(statusActive, statusExpired) {
		return false
	}
	c.finalize(now, models.SessionEndReasonTimeout)
	return true
}

// Submit ends the session on the student's request and grades it. A racing
// expiry tick that wins the compare-and-set leaves Submit with
// ErrAlreadyTerminal and the already-stored report untouched.
func (c *Controller) Submit(now time.Time) (*models.ResultReport, error) {
	switch {
	case c.status.Load() == statusNotStarted:
		return nil, ErrNotActive
	case !c.status.CompareAndSwap(statusActive, statusSubmitted):
		return nil, ErrAlreadyTerminal
	}
	c.finalize(now, models.SessionEndReasonSubmitted)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report, nil
}

// finalize runs exactly once, on the goroutine that won the terminal CAS.
func (c *Controller) finalize(now time.Time, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	report := Grade(c.def.ID, c.def.Questions, c.registry.Snapshot())
	c.report = &report
	c.endedAt = now
	c.endReason = reason
}

// Result returns the stored ResultReport once a terminal transition has
// produced it.
func (c *Controller) Result() (*models.ResultReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report, c.report != nil
}

// Answers exposes a copy of the current answer map for persistence.
func (c *Controller) Answers() map[uint]models.AnswerValue {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registry == nil {
		return nil
	}
	return c.registry.Snapshot()
}

// Snapshot builds the read-only projection for rendering: status, current
// index, remaining time and per-question answered flags.
func (c *Controller) Snapshot(now time.Time) models.SessionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := models.SessionSnapshot{
		SessionID: c.id,
		Status:    statusModel(c.status.Load()),
	}
	if c.def == nil {
		return snap
	}

	snap.AssessmentID = c.def.ID
	snap.TotalQuestions = len(c.def.Questions)
	snap.CurrentQuestionIndex = c.nav.Index()
	snap.AnsweredCount = c.registry.AnsweredCount()
	snap.AnsweredFlags = make([]bool, len(c.def.Questions))
	for i, q := range c.def.Questions {
		_, snap.AnsweredFlags[i] = c.registry.Get(q.ID)
	}

	started := c.startedAt
	snap.StartedAt = &started
	snap.Deadline = c.timer.Deadline()
	if left, ok := c.timer.Remaining(now); ok {
		secs := int(left / time.Second)
		snap.RemainingSeconds = &secs
	}
	return snap
}

// StartedAt, EndedAt, Deadline and EndReason describe the session's timing
// for persistence. They are only meaningful after Start.
func (c *Controller) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startedAt
}

func (c *Controller) EndedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endedAt
}

func (c *Controller) Deadline() *time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer.Deadline()
}

func (c *Controller) EndReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endReason
}

func (c *Controller) Definition() *models.AssessmentDefinition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.def
}
