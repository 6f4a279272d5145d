package session

import (
	"math"
	"strings"

	"github.com/studyhall/session-service/internal/models"
)

// Grade computes a ResultReport from the question list and the submitted
// answers. It is pure and total: identical inputs always yield an identical
// report, missing answers simply grade as incorrect, and an assessment worth
// zero points scores zero percent. Because grading cannot fail, the expiry
// path never has to handle a grading error mid-transition.
func Grade(assessmentID uint, questions []models.Question, answers map[uint]models.AnswerValue) models.ResultReport {
	report := models.ResultReport{
		AssessmentID: assessmentID,
		Questions:    make([]models.QuestionResult, 0, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		report.PointsPossible += q.Points

		result := models.QuestionResult{
			QuestionID:    q.ID,
			Points:        q.Points,
			CorrectAnswer: correctAnswerText(q),
			Explanation:   q.Explanation,
		}

		if submitted, ok := answers[q.ID]; ok {
			result.Answered = true
			result.SubmittedAnswer = &submitted
			result.Correct = isCorrect(q, submitted)
		}

		if result.Correct {
			report.PointsEarned += q.Points
		}
		report.Questions = append(report.Questions, result)
	}

	if report.PointsPossible > 0 {
		report.ScorePercentage = int(math.Round(100 * float64(report.PointsEarned) / float64(report.PointsPossible)))
	}

	return report
}

func isCorrect(q *models.Question, submitted models.AnswerValue) bool {
	switch q.Type {
	case models.SingleChoice:
		return submitted.Kind == models.AnswerChoice &&
			q.CorrectChoice != nil &&
			submitted.Choice == *q.CorrectChoice
	case models.ShortAnswer:
		// Surrounding whitespace and letter case are forgiven; no partial
		// credit and no fuzzy matching beyond that.
		return submitted.Kind == models.AnswerText &&
			strings.EqualFold(strings.TrimSpace(submitted.Text), strings.TrimSpace(q.CorrectText))
	default:
		return false
	}
}

func correctAnswerText(q *models.Question) string {
	switch q.Type {
	case models.SingleChoice:
		if q.CorrectChoice != nil && *q.CorrectChoice >= 0 && *q.CorrectChoice < len(q.Options) {
			return q.Options[*q.CorrectChoice]
		}
		return ""
	case models.ShortAnswer:
		return q.CorrectText
	default:
		return ""
	}
}
