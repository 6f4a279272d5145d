package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/session-service/internal/models"
)

func TestGradeTwoChoiceQuestions(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.SingleChoice, Points: 5, Options: []string{"a", "b"}, CorrectChoice: intPtr(0)},
		{ID: 2, Type: models.SingleChoice, Points: 5, Options: []string{"a", "b"}, CorrectChoice: intPtr(1)},
	}
	answers := map[uint]models.AnswerValue{
		1: models.ChoiceAnswer(0),
		2: models.ChoiceAnswer(0),
	}

	report := Grade(7, questions, answers)

	assert.Equal(t, uint(7), report.AssessmentID)
	assert.Equal(t, 5, report.PointsEarned)
	assert.Equal(t, 10, report.PointsPossible)
	assert.Equal(t, 50, report.ScorePercentage)

	require.Len(t, report.Questions, 2)
	assert.True(t, report.Questions[0].Correct)
	assert.False(t, report.Questions[1].Correct)
}

func TestGradeShortAnswerNormalization(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.ShortAnswer, Points: 3, CorrectText: "Paris"},
	}

	tests := []struct {
		name      string
		submitted string
		correct   bool
	}{
		{"exact", "Paris", true},
		{"surrounding whitespace", "  paris  ", true},
		{"case folded", "PARIS", true},
		{"wrong answer", "London", false},
		{"internal whitespace differs", "Pa ris", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Grade(1, questions, map[uint]models.AnswerValue{
				1: models.TextAnswer(tt.submitted),
			})
			assert.Equal(t, tt.correct, report.Questions[0].Correct)
		})
	}
}

func TestGradeUnansweredCountsIncorrect(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.SingleChoice, Points: 4, Options: []string{"x", "y"}, CorrectChoice: intPtr(0)},
		{ID: 2, Type: models.ShortAnswer, Points: 6, CorrectText: "42"},
	}

	report := Grade(1, questions, nil)

	assert.Equal(t, 0, report.PointsEarned)
	assert.Equal(t, 10, report.PointsPossible)
	assert.Equal(t, 0, report.ScorePercentage)
	for _, qr := range report.Questions {
		assert.False(t, qr.Correct)
		assert.False(t, qr.Answered)
		assert.Nil(t, qr.SubmittedAnswer)
	}
}

func TestGradeZeroPossiblePoints(t *testing.T) {
	report := Grade(1, nil, nil)

	assert.Equal(t, 0, report.PointsPossible)
	assert.Equal(t, 0, report.ScorePercentage)
}

func TestGradeRoundsPercentage(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Type: models.ShortAnswer, Points: 1, CorrectText: "a"},
		{ID: 2, Type: models.ShortAnswer, Points: 1, CorrectText: "b"},
		{ID: 3, Type: models.ShortAnswer, Points: 1, CorrectText: "c"},
	}
	answers := map[uint]models.AnswerValue{
		1: models.TextAnswer("a"),
		2: models.TextAnswer("b"),
	}

	report := Grade(1, questions, answers)

	// 2/3 rounds to 67, not truncates to 66
	assert.Equal(t, 67, report.ScorePercentage)
}

func TestGradeIsDeterministic(t *testing.T) {
	def := twoQuestionDefinition()
	answers := map[uint]models.AnswerValue{
		10: models.ChoiceAnswer(0),
		20: models.TextAnswer(" paris "),
	}

	first := Grade(def.ID, def.Questions, answers)
	second := Grade(def.ID, def.Questions, answers)

	assert.Equal(t, first, second)
}

func TestGradeReportsCorrectAnswerText(t *testing.T) {
	def := twoQuestionDefinition()

	report := Grade(def.ID, def.Questions, nil)

	assert.Equal(t, "Paris", report.Questions[0].CorrectAnswer)
	assert.Equal(t, "Paris", report.Questions[1].CorrectAnswer)
}
