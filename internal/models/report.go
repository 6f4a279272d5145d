package models

// QuestionResult is the per-question line of a ResultReport.
type QuestionResult struct {
	QuestionID      uint         `json:"question_id"`
	Correct         bool         `json:"correct"`
	Answered        bool         `json:"answered"`
	Points          int          `json:"points"`
	SubmittedAnswer *AnswerValue `json:"submitted_answer,omitempty"`
	CorrectAnswer   string       `json:"correct_answer"`
	Explanation     *string      `json:"explanation,omitempty"`
}

// ResultReport is the immutable summary produced exactly once when a session
// reaches a terminal status.
type ResultReport struct {
	AssessmentID    uint             `json:"assessment_id"`
	ScorePercentage int              `json:"score_percentage"`
	PointsEarned    int              `json:"points_earned"`
	PointsPossible  int              `json:"points_possible"`
	Questions       []QuestionResult `json:"questions"`
}
