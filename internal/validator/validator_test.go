package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/session-service/internal/models"
	"github.com/studyhall/session-service/internal/session"
)

func intPtr(i int) *int { return &i }

func validDefinition() *models.AssessmentDefinition {
	return &models.AssessmentDefinition{
		ID:    1,
		Title: "Unit 3 checkpoint",
		Questions: []models.Question{
			{
				ID:            1,
				Prompt:        "Pick the even number",
				Type:          models.SingleChoice,
				Points:        2,
				Options:       []string{"3", "4"},
				CorrectChoice: intPtr(1),
			},
		},
	}
}

func TestValidateDefinitionAcceptsValid(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateDefinition(validDefinition()))
}

func TestValidateDefinitionRejectsBadTags(t *testing.T) {
	v := New()

	def := validDefinition()
	def.Title = ""
	assert.Error(t, v.ValidateDefinition(def))

	def = validDefinition()
	def.Questions[0].Type = "essay"
	assert.Error(t, v.ValidateDefinition(def))

	def = validDefinition()
	def.Questions = nil
	assert.Error(t, v.ValidateDefinition(def))
}

func TestValidateDefinitionRunsStructuralRules(t *testing.T) {
	v := New()

	// Struct tags cannot see that the correct choice indexes outside the
	// options list; the engine's structural validation must catch it.
	def := validDefinition()
	def.Questions[0].CorrectChoice = intPtr(9)

	err := v.ValidateDefinition(def)
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrMalformedAssessment)
}
