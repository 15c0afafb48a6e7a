package models

import "time"

// SubmissionStatus tracks the grading lifecycle of submitted work.
type SubmissionStatus string

// Submission/answer states. Anything past pending is terminal for the student.
const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionGraded   SubmissionStatus = "graded"
	SubmissionReviewed SubmissionStatus = "reviewed"
	SubmissionReturned SubmissionStatus = "returned"
)

// AssignmentSubmission is a student's one-shot response package to an
// assignment. Created once, thereafter mutated only by grading.
type AssignmentSubmission struct {
	ID           string           `db:"id" json:"id"`
	AssignmentID string           `db:"assignment_id" json:"assignment_id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	DocumentURL  *string          `db:"document_url" json:"document_url,omitempty"`
	Grade        *float64         `db:"grade" json:"grade,omitempty"`
	Feedback     *string          `db:"feedback" json:"feedback,omitempty"`
	Status       SubmissionStatus `db:"status" json:"status"`
	SubmittedAt  time.Time        `db:"submitted_at" json:"submitted_at"`
}

// SubmissionDetail enriches a submission with the student's display info.
type SubmissionDetail struct {
	AssignmentSubmission
	StudentName  string  `db:"student_name" json:"student_name"`
	StudentImage *string `db:"student_image" json:"student_image,omitempty"`
}

// AssignmentAnswer is one per-question answer row under a submission.
type AssignmentAnswer struct {
	ID           string  `db:"id" json:"id"`
	SubmissionID string  `db:"submission_id" json:"submission_id"`
	QuestionID   string  `db:"question_id" json:"question_id"`
	AnswerText   *string `db:"answer_text" json:"answer_text,omitempty"`
	OptionID     *string `db:"option_id" json:"option_id,omitempty"`
	DocumentURL  *string `db:"document_url" json:"document_url,omitempty"`
}

// QuizAttempt is the immutable scored response to a multiple_choice question.
type QuizAttempt struct {
	ID          string    `db:"id" json:"id"`
	QuestionID  string    `db:"question_id" json:"question_id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	OptionID    string    `db:"option_id" json:"option_id"`
	Score       int       `db:"score" json:"score"`
	IsCorrect   bool      `db:"is_correct" json:"is_correct"`
	AttemptedAt time.Time `db:"attempted_at" json:"attempted_at"`
}

// QuestionAnswer is a free-text response, mutable while pending.
type QuestionAnswer struct {
	ID         string           `db:"id" json:"id"`
	QuestionID string           `db:"question_id" json:"question_id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	AnswerText string           `db:"answer_text" json:"answer_text"`
	Marks      *float64         `db:"marks" json:"marks,omitempty"`
	Feedback   *string          `db:"feedback" json:"feedback,omitempty"`
	Status     SubmissionStatus `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// AnswerDetail enriches a free-text answer with student display info.
type AnswerDetail struct {
	QuestionAnswer
	StudentName  string  `db:"student_name" json:"student_name"`
	StudentImage *string `db:"student_image" json:"student_image,omitempty"`
}

// AttemptQuizRequest records a single choice for a multiple_choice question.
type AttemptQuizRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	OptionID   string `json:"option_id" validate:"required"`
}

// SubmissionAnswerInput is one answer supplied with an assignment submission.
type SubmissionAnswerInput struct {
	QuestionID string  `json:"question_id" validate:"required"`
	AnswerText *string `json:"answer_text,omitempty"`
	OptionID   *string `json:"option_id,omitempty"`
}

// SubmitAssignmentRequest submits all answers for an assignment at once.
type SubmitAssignmentRequest struct {
	AssignmentID string                  `json:"assignment_id" validate:"required"`
	Answers      []SubmissionAnswerInput `json:"answers" validate:"omitempty,dive"`
	DocumentURL  *string                 `json:"-"`
}

// SubmitAnswerRequest submits or revises a free-text answer.
type SubmitAnswerRequest struct {
	AnswerText string `json:"answer_text" validate:"required"`
}

// GradeSubmissionRequest is the teacher-side grading transition.
type GradeSubmissionRequest struct {
	Grade    *float64         `json:"grade,omitempty" validate:"omitempty,gte=0"`
	Feedback *string          `json:"feedback,omitempty"`
	Status   SubmissionStatus `json:"status,omitempty" validate:"omitempty,oneof=graded reviewed returned"`
}

// GradeAnswerRequest grades a free-text answer.
type GradeAnswerRequest struct {
	Marks    *float64 `json:"marks,omitempty" validate:"omitempty,gte=0"`
	Feedback *string  `json:"feedback,omitempty"`
}

// QuestionView joins a question with the caller's own prior work.
type QuestionView struct {
	Question
	Answer  *QuestionAnswer `json:"answer,omitempty"`
	Attempt *QuizAttempt    `json:"attempt,omitempty"`
}

// ClassResources is everything a class exposes to its audience.
type ClassResources struct {
	Questions   []StudentQuestion   `json:"questions"`
	Assignments []StudentAssignment `json:"assignments"`
	PastPapers  []PastPaper         `json:"past_papers"`
	Videos      []Video             `json:"videos"`
}

// ClassResourceBundle groups a class's resources for the all-classes view.
type ClassResourceBundle struct {
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
	ClassResources
}
