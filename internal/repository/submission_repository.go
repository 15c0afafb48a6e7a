package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

// SubmissionRepository handles assignment submissions and their answer rows.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// CreateWithAnswers inserts the submission and one answer row per supplied
// answer in a single transaction. The unique constraint on
// (assignment_id, student_id) rejects a second submission as ErrDuplicate
// and rolls the whole write back.
func (r *SubmissionRepository) CreateWithAnswers(ctx context.Context, submission *models.AssignmentSubmission, answers []models.AssignmentAnswer) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	submission.SubmittedAt = time.Now().UTC()
	if submission.Status == "" {
		submission.Status = models.SubmissionPending
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create submission: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertSubmission = `INSERT INTO assignment_submissions (id, assignment_id, student_id, document_url, grade, feedback, status, submitted_at)
        VALUES (:id, :assignment_id, :student_id, :document_url, :grade, :feedback, :status, :submitted_at)`
	if _, err := tx.NamedExecContext(ctx, insertSubmission, submission); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert submission: %w", err)
	}

	const insertAnswer = `INSERT INTO assignment_answers (id, submission_id, question_id, answer_text, option_id, document_url)
        VALUES (:id, :submission_id, :question_id, :answer_text, :option_id, :document_url)`
	for i := range answers {
		answers[i].ID = uuid.NewString()
		answers[i].SubmissionID = submission.ID
		if _, err := tx.NamedExecContext(ctx, insertAnswer, answers[i]); err != nil {
			return fmt.Errorf("insert submission answer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create submission: %w", err)
	}
	return nil
}

// FindByID returns a submission by its ID.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.AssignmentSubmission, error) {
	const query = `SELECT id, assignment_id, student_id, document_url, grade, feedback, status, submitted_at
        FROM assignment_submissions WHERE id = $1`
	var submission models.AssignmentSubmission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// TeacherID resolves the teacher owning the class the submission's
// assignment belongs to.
func (r *SubmissionRepository) TeacherID(ctx context.Context, submissionID string) (string, error) {
	const query = `SELECT c.teacher_id
        FROM assignment_submissions s
        JOIN assignments a ON a.id = s.assignment_id
        JOIN classes c ON c.id = a.class_id
        WHERE s.id = $1`
	var teacherID string
	if err := r.db.GetContext(ctx, &teacherID, query, submissionID); err != nil {
		return "", err
	}
	return teacherID, nil
}

// UpdateGrade applies the grading transition. Only pending submissions
// move; returns false when the row was already graded.
func (r *SubmissionRepository) UpdateGrade(ctx context.Context, id string, grade *float64, feedback *string, status models.SubmissionStatus) (bool, error) {
	const query = `UPDATE assignment_submissions SET grade = $2, feedback = $3, status = $4
        WHERE id = $1 AND status = $5`
	result, err := r.db.ExecContext(ctx, query, id, grade, feedback, status, models.SubmissionPending)
	if err != nil {
		return false, fmt.Errorf("grade submission: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("grade submission rows: %w", err)
	}
	return affected == 1, nil
}

// ListByAssignment returns submissions newest first with student info.
func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.SubmissionDetail, error) {
	const query = `SELECT s.id, s.assignment_id, s.student_id, s.document_url, s.grade, s.feedback, s.status, s.submitted_at,
        u.full_name AS student_name, u.profile_image_url AS student_image
        FROM assignment_submissions s
        JOIN users u ON u.id = s.student_id
        WHERE s.assignment_id = $1
        ORDER BY s.submitted_at DESC`
	var submissions []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &submissions, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// AnswersBySubmission returns the per-question answer rows of a submission.
func (r *SubmissionRepository) AnswersBySubmission(ctx context.Context, submissionID string) ([]models.AssignmentAnswer, error) {
	const query = `SELECT id, submission_id, question_id, answer_text, option_id, document_url
        FROM assignment_answers WHERE submission_id = $1`
	var answers []models.AssignmentAnswer
	if err := r.db.SelectContext(ctx, &answers, query, submissionID); err != nil {
		return nil, fmt.Errorf("list submission answers: %w", err)
	}
	return answers, nil
}
