package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/session-service/internal/models"
)

var testStart = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func startedController(t *testing.T, def *models.AssessmentDefinition) *Controller {
	t.Helper()
	c := NewController("sess-1")
	require.NoError(t, c.Start(def, testStart))
	return c
}

func timedDefinition(limitSeconds int) *models.AssessmentDefinition {
	def := twoQuestionDefinition()
	def.TimeLimitSeconds = intPtr(limitSeconds)
	return def
}

func TestControllerStart(t *testing.T) {
	c := startedController(t, timedDefinition(60))

	assert.Equal(t, models.SessionActive, c.Status())
	assert.Equal(t, testStart, c.StartedAt())
	require.NotNil(t, c.Deadline())
	assert.Equal(t, testStart.Add(60*time.Second), *c.Deadline())
}

func TestControllerStartRejectsMalformedDefinition(t *testing.T) {
	bad := twoQuestionDefinition()
	bad.Questions[0].CorrectChoice = intPtr(5) // outside options

	c := NewController("sess-1")
	err := c.Start(bad, testStart)
	assert.ErrorIs(t, err, ErrMalformedAssessment)
	assert.Equal(t, models.SessionNotStarted, c.Status())
}

func TestControllerStartTwice(t *testing.T) {
	c := startedController(t, twoQuestionDefinition())

	err := c.Start(twoQuestionDefinition(), testStart)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestControllerOperationsRequireActive(t *testing.T) {
	c := NewController("sess-1")

	assert.ErrorIs(t, c.RecordAnswer(10, models.ChoiceAnswer(0)), ErrNotActive)
	assert.ErrorIs(t, c.Next(), ErrNotActive)
	assert.ErrorIs(t, c.JumpTo(0), ErrNotActive)

	_, err := c.Submit(testStart)
	assert.ErrorIs(t, err, ErrNotActive)
}

// Scenario: two single_choice questions worth 5 points each, student gets
// one right, submits, and receives a 50% report.
func TestControllerSubmitGrades(t *testing.T) {
	def := &models.AssessmentDefinition{
		ID:    3,
		Title: "Two choices",
		Questions: []models.Question{
			{ID: 1, Prompt: "q1", Type: models.SingleChoice, Points: 5, Options: []string{"a", "b"}, CorrectChoice: intPtr(0)},
			{ID: 2, Prompt: "q2", Type: models.SingleChoice, Points: 5, Options: []string{"a", "b"}, CorrectChoice: intPtr(1)},
		},
	}
	c := startedController(t, def)

	require.NoError(t, c.RecordAnswer(1, models.ChoiceAnswer(0)))
	require.NoError(t, c.RecordAnswer(2, models.ChoiceAnswer(0)))

	report, err := c.Submit(testStart.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, models.SessionSubmitted, c.Status())
	assert.Equal(t, 5, report.PointsEarned)
	assert.Equal(t, 10, report.PointsPossible)
	assert.Equal(t, 50, report.ScorePercentage)
	assert.True(t, report.Questions[0].Correct)
	assert.False(t, report.Questions[1].Correct)
	assert.Equal(t, models.SessionEndReasonSubmitted, c.EndReason())
}

// Scenario: 60 second limit, no submit; a tick after the deadline forces
// Expired and produces exactly one report from the answers present then.
func TestControllerTickForcesExpiry(t *testing.T) {
	c := startedController(t, timedDefinition(60))
	require.NoError(t, c.RecordAnswer(10, models.ChoiceAnswer(0)))

	assert.False(t, c.Tick(testStart.Add(59*time.Second)))
	assert.Equal(t, models.SessionActive, c.Status())

	assert.True(t, c.Tick(testStart.Add(61*time.Second)))
	assert.Equal(t, models.SessionExpired, c.Status())
	assert.Equal(t, models.SessionEndReasonTimeout, c.EndReason())

	report, ok := c.Result()
	require.True(t, ok)
	assert.Equal(t, 5, report.PointsEarned) // only the answered question

	// Further ticks are no-ops and do not re-grade
	assert.False(t, c.Tick(testStart.Add(2*time.Hour)))
	again, _ := c.Result()
	assert.Same(t, report, again)
}

func TestControllerUntimedNeverExpires(t *testing.T) {
	c := startedController(t, twoQuestionDefinition())

	for _, offset := range []time.Duration{0, time.Hour, 24 * 365 * time.Hour} {
		assert.False(t, c.Tick(testStart.Add(offset)))
	}
	assert.Equal(t, models.SessionActive, c.Status())
}

// Scenario: submit called twice; the second call fails with AlreadyTerminal
// and the stored report is unchanged.
func TestControllerDoubleSubmit(t *testing.T) {
	c := startedController(t, twoQuestionDefinition())

	first, err := c.Submit(testStart.Add(time.Minute))
	require.NoError(t, err)

	_, err = c.Submit(testStart.Add(2 * time.Minute))
	assert.ErrorIs(t, err, ErrAlreadyTerminal)

	stored, ok := c.Result()
	require.True(t, ok)
	assert.Same(t, first, stored)
}

func TestControllerRejectsAnswersAfterTerminal(t *testing.T) {
	c := startedController(t, twoQuestionDefinition())
	_, err := c.Submit(testStart)
	require.NoError(t, err)

	assert.ErrorIs(t, c.RecordAnswer(10, models.ChoiceAnswer(1)), ErrNotActive)
	assert.ErrorIs(t, c.Next(), ErrNotActive)
}

// Scenario: "Next" on the last question leaves the index unchanged without
// an error.
func TestControllerNavigation(t *testing.T) {
	c := startedController(t, twoQuestionDefinition())

	require.NoError(t, c.Next())
	assert.Equal(t, 1, c.Snapshot(testStart).CurrentQuestionIndex)

	require.NoError(t, c.Next())
	assert.Equal(t, 1, c.Snapshot(testStart).CurrentQuestionIndex)

	require.NoError(t, c.Previous())
	assert.Equal(t, 0, c.Snapshot(testStart).CurrentQuestionIndex)

	assert.ErrorIs(t, c.JumpTo(2), ErrOutOfRange)
	require.NoError(t, c.JumpTo(1))
	assert.Equal(t, 1, c.Snapshot(testStart).CurrentQuestionIndex)
}

func TestControllerSnapshot(t *testing.T) {
	c := startedController(t, timedDefinition(120))
	require.NoError(t, c.RecordAnswer(20, models.TextAnswer("paris")))

	snap := c.Snapshot(testStart.Add(30 * time.Second))

	assert.Equal(t, "sess-1", snap.SessionID)
	assert.Equal(t, models.SessionActive, snap.Status)
	assert.Equal(t, 2, snap.TotalQuestions)
	assert.Equal(t, 1, snap.AnsweredCount)
	assert.Equal(t, []bool{false, true}, snap.AnsweredFlags)
	require.NotNil(t, snap.RemainingSeconds)
	assert.Equal(t, 90, *snap.RemainingSeconds)
}

// A racing expiry tick and student submit must produce exactly one report:
// whichever wins the compare-and-set grades, the loser backs off.
func TestControllerSubmitTickRace(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := startedController(t, timedDefinition(60))
		overdue := testStart.Add(2 * time.Minute)

		var wg sync.WaitGroup
		var submitErr error
		var expired bool

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, submitErr = c.Submit(overdue)
		}()
		go func() {
			defer wg.Done()
			expired = c.Tick(overdue)
		}()
		wg.Wait()

		submitted := submitErr == nil
		require.NotEqual(t, submitted, expired, "exactly one of submit/tick must win")

		_, ok := c.Result()
		require.True(t, ok)
		require.True(t, c.Status().Terminal())
		if !submitted {
			require.ErrorIs(t, submitErr, ErrAlreadyTerminal)
		}
	}
}

// Concurrent answers and navigation during an expiry tick must leave the
// index in range and the controller in a consistent terminal state.
func TestControllerConcurrentMutation(t *testing.T) {
	c := startedController(t, timedDefinition(60))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = c.RecordAnswer(10, models.ChoiceAnswer(i%3))
				_ = c.Next()
				_ = c.Previous()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Tick(testStart.Add(2 * time.Minute))
	}()
	wg.Wait()

	assert.Equal(t, models.SessionExpired, c.Status())
	snap := c.Snapshot(testStart.Add(3 * time.Minute))
	assert.GreaterOrEqual(t, snap.CurrentQuestionIndex, 0)
	assert.Less(t, snap.CurrentQuestionIndex, snap.TotalQuestions)
}
