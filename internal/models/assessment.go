package models

type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	ShortAnswer  QuestionType = "short_answer"
)

// AssessmentDefinition is the read-only input to a session. It is authored
// and stored elsewhere; this service validates it once at session start and
// never mutates it.
type AssessmentDefinition struct {
	ID               uint       `json:"id" validate:"required"`
	Title            string     `json:"title" validate:"required,min=1,max=200"`
	TimeLimitSeconds *int       `json:"time_limit_seconds" validate:"omitempty,min=1"` // nil means untimed
	Questions        []Question `json:"questions" validate:"required,min=1,dive"`
}

type Question struct {
	ID     uint         `json:"id" validate:"required"`
	Prompt string       `json:"prompt" validate:"required"`
	Type   QuestionType `json:"type" validate:"required,question_type"`
	Points int          `json:"points" validate:"required,min=1"`

	// single_choice only
	Options []string `json:"options,omitempty"`
	// CorrectChoice indexes Options for single_choice; CorrectText holds the
	// expected answer for short_answer.
	CorrectChoice *int   `json:"correct_choice,omitempty"`
	CorrectText   string `json:"correct_text,omitempty"`

	Explanation *string `json:"explanation,omitempty"`
}

// QuestionByID builds the lookup shared by the answer registry and the grader.
func (d *AssessmentDefinition) QuestionByID() map[uint]*Question {
	m := make(map[uint]*Question, len(d.Questions))
	for i := range d.Questions {
		m[d.Questions[i].ID] = &d.Questions[i]
	}
	return m
}

// TotalPoints sums points over all questions.
func (d *AssessmentDefinition) TotalPoints() int {
	total := 0
	for _, q := range d.Questions {
		total += q.Points
	}
	return total
}
