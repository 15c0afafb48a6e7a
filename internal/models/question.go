package models

import "time"

// QuestionType tags the question variant.
type QuestionType string

// Question variants.
const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionEssay          QuestionType = "essay"
)

// IsMultipleChoice reports whether the type carries options and a time limit.
func (t QuestionType) IsMultipleChoice() bool { return t == QuestionMultipleChoice }

// IsFreeText reports whether the type is human-graded free text.
func (t QuestionType) IsFreeText() bool {
	return t == QuestionShortAnswer || t == QuestionEssay
}

// Valid reports whether the type is one of the known variants.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionShortAnswer, QuestionEssay:
		return true
	}
	return false
}

// Question is the shared base of all question variants. TimeLimitMinutes and
// Options are populated only for multiple_choice.
type Question struct {
	ID               string       `db:"id" json:"id"`
	ClassID          string       `db:"class_id" json:"class_id"`
	Text             string       `db:"question_text" json:"question_text"`
	Type             QuestionType `db:"question_type" json:"question_type"`
	Points           int          `db:"points" json:"points"`
	DueDate          *time.Time   `db:"due_date" json:"due_date,omitempty"`
	TimeLimitMinutes *int         `db:"time_limit_minutes" json:"time_limit_minutes,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`

	Options []Option `json:"options,omitempty"`
}

// Option is one choice of a multiple_choice question.
type Option struct {
	ID         string `db:"id" json:"id"`
	QuestionID string `db:"question_id" json:"question_id"`
	Text       string `db:"option_text" json:"option_text"`
	IsCorrect  bool   `db:"is_correct" json:"is_correct"`
}

// StudentQuestion augments a question with the caller's completion state.
type StudentQuestion struct {
	Question
	Attempted bool `db:"attempted" json:"attempted"`
}

// OptionInput defines one option at authoring time.
type OptionInput struct {
	Text      string `json:"option_text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// AddQuestionRequest creates a standalone question in a class.
type AddQuestionRequest struct {
	Text             string        `json:"question_text" validate:"required"`
	Type             QuestionType  `json:"question_type" validate:"required,oneof=multiple_choice short_answer essay"`
	Points           int           `json:"points,omitempty" validate:"omitempty,gt=0"`
	DueDate          string        `json:"due_date,omitempty"`
	TimeLimitMinutes *int          `json:"time_limit_minutes,omitempty"`
	Options          []OptionInput `json:"options,omitempty" validate:"omitempty,dive"`
}
