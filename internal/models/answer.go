package models

import (
	"encoding/json"
	"fmt"
)

type AnswerKind string

const (
	AnswerChoice AnswerKind = "choice"
	AnswerText   AnswerKind = "text"
)

// AnswerValue is a tagged union: a selected option index for single_choice
// questions or free text for short_answer questions. The zero value is
// "no answer" and must not be stored in a registry.
type AnswerValue struct {
	Kind   AnswerKind `json:"kind"`
	Choice int        `json:"choice,omitempty"`
	Text   string     `json:"text,omitempty"`
}

func ChoiceAnswer(index int) AnswerValue {
	return AnswerValue{Kind: AnswerChoice, Choice: index}
}

func TextAnswer(text string) AnswerValue {
	return AnswerValue{Kind: AnswerText, Text: text}
}

// Matches reports whether the answer's tag fits the question's declared type.
func (v AnswerValue) Matches(qt QuestionType) bool {
	switch v.Kind {
	case AnswerChoice:
		return qt == SingleChoice
	case AnswerText:
		return qt == ShortAnswer
	default:
		return false
	}
}

func (v AnswerValue) String() string {
	switch v.Kind {
	case AnswerChoice:
		return fmt.Sprintf("choice(%d)", v.Choice)
	case AnswerText:
		return fmt.Sprintf("text(%q)", v.Text)
	default:
		return "unanswered"
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	type raw AnswerValue
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	switch r.Kind {
	case AnswerChoice, AnswerText:
		*v = AnswerValue(r)
		return nil
	default:
		return fmt.Errorf("unknown answer kind %q", r.Kind)
	}
}
