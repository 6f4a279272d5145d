package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyhall/session-service/internal/models"
)

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.AssessmentDefinition)
		wantErr bool
	}{
		{"valid", func(d *models.AssessmentDefinition) {}, false},
		{"nil options", func(d *models.AssessmentDefinition) {
			d.Questions[0].Options = nil
		}, true},
		{"correct choice out of range", func(d *models.AssessmentDefinition) {
			d.Questions[0].CorrectChoice = intPtr(3)
		}, true},
		{"negative correct choice", func(d *models.AssessmentDefinition) {
			d.Questions[0].CorrectChoice = intPtr(-1)
		}, true},
		{"missing correct choice", func(d *models.AssessmentDefinition) {
			d.Questions[0].CorrectChoice = nil
		}, true},
		{"empty correct text", func(d *models.AssessmentDefinition) {
			d.Questions[1].CorrectText = ""
		}, true},
		{"zero points", func(d *models.AssessmentDefinition) {
			d.Questions[1].Points = 0
		}, true},
		{"duplicate question ids", func(d *models.AssessmentDefinition) {
			d.Questions[1].ID = d.Questions[0].ID
		}, true},
		{"unknown question type", func(d *models.AssessmentDefinition) {
			d.Questions[0].Type = "essay"
		}, true},
		{"no questions", func(d *models.AssessmentDefinition) {
			d.Questions = nil
		}, true},
		{"zero time limit", func(d *models.AssessmentDefinition) {
			d.TimeLimitSeconds = intPtr(0)
		}, true},
		{"timed valid", func(d *models.AssessmentDefinition) {
			d.TimeLimitSeconds = intPtr(600)
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := twoQuestionDefinition()
			tt.mutate(def)

			err := ValidateDefinition(def)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedAssessment)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("nil definition", func(t *testing.T) {
		assert.ErrorIs(t, ValidateDefinition(nil), ErrMalformedAssessment)
	})
}
