package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/studyhall/session-service/internal/errors"
	"github.com/studyhall/session-service/internal/models"
	"github.com/studyhall/session-service/internal/session"
)

// Validator combines struct-tag validation with the structural definition
// rules the session engine enforces at start.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{structValidator: structValidator}
}

// Validate validates struct tags on any request or model value.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// ValidateDefinition runs both struct-tag validation and the engine's
// structural rules over an assessment definition.
func (v *Validator) ValidateDefinition(def *models.AssessmentDefinition) error {
	if err := v.Validate(def); err != nil {
		return err
	}
	return session.ValidateDefinition(def)
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)

	// Report json field names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.SingleChoice, models.ShortAnswer:
		return true
	default:
		return false
	}
}
