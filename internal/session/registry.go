package session

import (
	"fmt"

	"github.com/studyhall/session-service/internal/models"
)

// AnswerRegistry holds the student's current answer per question,
// last-write-wins. A student may change an answer freely before submission;
// no history is retained.
type AnswerRegistry struct {
	questions map[uint]*models.Question
	answers   map[uint]models.AnswerValue
}

func NewAnswerRegistry(def *models.AssessmentDefinition) *AnswerRegistry {
	return &AnswerRegistry{
		questions: def.QuestionByID(),
		answers:   make(map[uint]models.AnswerValue, len(def.Questions)),
	}
}

// Set overwrites any prior answer for the question. It fails if the question
// id is not part of the assessment or the value's tag does not match the
// question's declared type; the registry is unchanged on failure.
func (r *AnswerRegistry) Set(questionID uint, value models.AnswerValue) error {
	q, ok := r.questions[questionID]
	if !ok {
		return fmt.Errorf("question %d: %w", questionID, ErrInvalidQuestion)
	}
	if !value.Matches(q.Type) {
		return fmt.Errorf("question %d expects %s, got %s: %w", questionID, q.Type, value.Kind, ErrInvalidAnswerType)
	}
	r.answers[questionID] = value
	return nil
}

func (r *AnswerRegistry) Get(questionID uint) (models.AnswerValue, bool) {
	v, ok := r.answers[questionID]
	return v, ok
}

func (r *AnswerRegistry) AnsweredCount() int {
	return len(r.answers)
}

// Snapshot copies the current answers so grading and persistence never share
// the live map.
func (r *AnswerRegistry) Snapshot() map[uint]models.AnswerValue {
	out := make(map[uint]models.AnswerValue, len(r.answers))
	for id, v := range r.answers {
		out[id] = v
	}
	return out
}
