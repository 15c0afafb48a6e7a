package models

import "time"

// Assignment bundles questions under a title with an overall point total.
type Assignment struct {
	ID          string     `db:"id" json:"id"`
	ClassID     string     `db:"class_id" json:"class_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	TotalPoints int        `db:"total_points" json:"total_points"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// AssignmentQuestion is a linked question carrying the per-assignment
// point override.
type AssignmentQuestion struct {
	Question
	AssignmentPoints int `db:"assignment_points" json:"assignment_points"`
}

// AssignmentDetail is an assignment with its linked questions attached.
type AssignmentDetail struct {
	Assignment
	Questions []AssignmentQuestion `json:"questions"`
}

// StudentAssignment augments an assignment with the caller's completion state.
type StudentAssignment struct {
	Assignment
	Submitted bool                 `db:"submitted" json:"submitted"`
	Questions []AssignmentQuestion `json:"questions,omitempty"`
}

// AssignmentQuestionInput defines one question authored inside an assignment.
// Questions are always newly created per assignment, never reused.
type AssignmentQuestionInput struct {
	Text    string        `json:"question_text" validate:"required"`
	Type    QuestionType  `json:"question_type,omitempty" validate:"omitempty,oneof=multiple_choice short_answer essay"`
	Points  int           `json:"points,omitempty" validate:"omitempty,gt=0"`
	Options []OptionInput `json:"options,omitempty" validate:"omitempty,dive"`
}

// CreateAssignmentRequest creates an assignment plus its questions as one unit.
type CreateAssignmentRequest struct {
	Title       string                    `json:"title" validate:"required"`
	Description *string                   `json:"description,omitempty"`
	DueDate     string                    `json:"due_date,omitempty"`
	TotalPoints int                       `json:"total_points,omitempty" validate:"omitempty,gt=0"`
	Questions   []AssignmentQuestionInput `json:"questions,omitempty" validate:"omitempty,dive"`
}
