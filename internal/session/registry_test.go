package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/session-service/internal/models"
)

func intPtr(i int) *int { return &i }

func twoQuestionDefinition() *models.AssessmentDefinition {
	return &models.AssessmentDefinition{
		ID:    1,
		Title: "Geography basics",
		Questions: []models.Question{
			{
				ID:            10,
				Prompt:        "Which of these is a capital city?",
				Type:          models.SingleChoice,
				Points:        5,
				Options:       []string{"Paris", "Lyon", "Marseille"},
				CorrectChoice: intPtr(0),
			},
			{
				ID:          20,
				Prompt:      "What is the capital of France?",
				Type:        models.ShortAnswer,
				Points:      5,
				CorrectText: "Paris",
			},
		},
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	reg := NewAnswerRegistry(twoQuestionDefinition())

	require.NoError(t, reg.Set(10, models.ChoiceAnswer(2)))
	require.NoError(t, reg.Set(10, models.ChoiceAnswer(1)))

	v, ok := reg.Get(10)
	require.True(t, ok)
	assert.Equal(t, models.ChoiceAnswer(1), v)
	assert.Equal(t, 1, reg.AnsweredCount())
}

func TestRegistryRejectsUnknownQuestion(t *testing.T) {
	reg := NewAnswerRegistry(twoQuestionDefinition())

	err := reg.Set(99, models.ChoiceAnswer(0))
	assert.ErrorIs(t, err, ErrInvalidQuestion)
	assert.Equal(t, 0, reg.AnsweredCount())
}

func TestRegistryRejectsMismatchedAnswerKind(t *testing.T) {
	reg := NewAnswerRegistry(twoQuestionDefinition())

	// Text answer for a single_choice question
	err := reg.Set(10, models.TextAnswer("Paris"))
	assert.ErrorIs(t, err, ErrInvalidAnswerType)

	// Choice answer for a short_answer question
	err = reg.Set(20, models.ChoiceAnswer(0))
	assert.ErrorIs(t, err, ErrInvalidAnswerType)

	// Failed writes leave the registry unchanged
	_, ok := reg.Get(10)
	assert.False(t, ok)
	_, ok = reg.Get(20)
	assert.False(t, ok)
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	reg := NewAnswerRegistry(twoQuestionDefinition())
	require.NoError(t, reg.Set(10, models.ChoiceAnswer(0)))

	snap := reg.Snapshot()
	snap[20] = models.TextAnswer("tampered")

	assert.Equal(t, 1, reg.AnsweredCount())
	_, ok := reg.Get(20)
	assert.False(t, ok)
}
