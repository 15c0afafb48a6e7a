package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

// AttemptRepository handles the immutable quiz attempt rows.
type AttemptRepository struct {
	db *sqlx.DB
}

// NewAttemptRepository constructs the repository.
func NewAttemptRepository(db *sqlx.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create inserts one attempt. The unique constraint on
// (question_id, student_id) makes a second attempt fail with ErrDuplicate
// even under concurrent first attempts.
func (r *AttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	attempt.AttemptedAt = time.Now().UTC()
	const query = `INSERT INTO quiz_attempts (id, question_id, student_id, option_id, score, is_correct, attempted_at)
        VALUES (:id, :question_id, :student_id, :option_id, :score, :is_correct, :attempted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, attempt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create attempt: %w", err)
	}
	return nil
}

// FindByQuestionAndStudent returns the student's attempt if one exists.
func (r *AttemptRepository) FindByQuestionAndStudent(ctx context.Context, questionID, studentID string) (*models.QuizAttempt, error) {
	const query = `SELECT id, question_id, student_id, option_id, score, is_correct, attempted_at
        FROM quiz_attempts WHERE question_id = $1 AND student_id = $2`
	var attempt models.QuizAttempt
	if err := r.db.GetContext(ctx, &attempt, query, questionID, studentID); err != nil {
		return nil, err
	}
	return &attempt, nil
}
