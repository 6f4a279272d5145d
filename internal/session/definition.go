package session

import (
	"fmt"

	"github.com/studyhall/session-service/internal/models"
)

// ValidateDefinition checks the structural rules a definition must satisfy
// before a session may start: at least one question, unique ids, positive
// points, and the type-specific fields each question kind requires. All
// failures wrap ErrMalformedAssessment.
func ValidateDefinition(def *models.AssessmentDefinition) error {
	if def == nil {
		return fmt.Errorf("nil definition: %w", ErrMalformedAssessment)
	}
	if len(def.Questions) == 0 {
		return fmt.Errorf("assessment %d has no questions: %w", def.ID, ErrMalformedAssessment)
	}

	seen := make(map[uint]struct{}, len(def.Questions))
	for i := range def.Questions {
		q := &def.Questions[i]
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %d: %w", q.ID, ErrMalformedAssessment)
		}
		seen[q.ID] = struct{}{}

		if q.Points <= 0 {
			return fmt.Errorf("question %d: points must be positive: %w", q.ID, ErrMalformedAssessment)
		}

		switch q.Type {
		case models.SingleChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("question %d: single_choice requires options: %w", q.ID, ErrMalformedAssessment)
			}
			if q.CorrectChoice == nil {
				return fmt.Errorf("question %d: single_choice requires a correct choice: %w", q.ID, ErrMalformedAssessment)
			}
			if *q.CorrectChoice < 0 || *q.CorrectChoice >= len(q.Options) {
				return fmt.Errorf("question %d: correct choice %d outside options: %w", q.ID, *q.CorrectChoice, ErrMalformedAssessment)
			}
		case models.ShortAnswer:
			if q.CorrectText == "" {
				return fmt.Errorf("question %d: short_answer requires a correct answer: %w", q.ID, ErrMalformedAssessment)
			}
		default:
			return fmt.Errorf("question %d: unknown type %q: %w", q.ID, q.Type, ErrMalformedAssessment)
		}
	}

	if def.TimeLimitSeconds != nil && *def.TimeLimitSeconds <= 0 {
		return fmt.Errorf("time limit must be positive when set: %w", ErrMalformedAssessment)
	}
	return nil
}
