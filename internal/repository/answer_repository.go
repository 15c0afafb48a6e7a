package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

// AnswerRepository handles free-text question answers.
type AnswerRepository struct {
	db *sqlx.DB
}

// NewAnswerRepository constructs the repository.
func NewAnswerRepository(db *sqlx.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// FindByQuestionAndStudent returns the student's answer if one exists.
func (r *AnswerRepository) FindByQuestionAndStudent(ctx context.Context, questionID, studentID string) (*models.QuestionAnswer, error) {
	const query = `SELECT id, question_id, student_id, answer_text, marks, feedback, status, created_at, updated_at
        FROM question_answers WHERE question_id = $1 AND student_id = $2`
	var answer models.QuestionAnswer
	if err := r.db.GetContext(ctx, &answer, query, questionID, studentID); err != nil {
		return nil, err
	}
	return &answer, nil
}

// FindByID returns an answer by its ID.
func (r *AnswerRepository) FindByID(ctx context.Context, id string) (*models.QuestionAnswer, error) {
	const query = `SELECT id, question_id, student_id, answer_text, marks, feedback, status, created_at, updated_at
        FROM question_answers WHERE id = $1`
	var answer models.QuestionAnswer
	if err := r.db.GetContext(ctx, &answer, query, id); err != nil {
		return nil, err
	}
	return &answer, nil
}

// Create inserts a new pending answer. ErrDuplicate signals a concurrent
// first submission for the same (question, student) pair.
func (r *AnswerRepository) Create(ctx context.Context, answer *models.QuestionAnswer) error {
	if answer.ID == "" {
		answer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	answer.CreatedAt = now
	answer.UpdatedAt = now
	if answer.Status == "" {
		answer.Status = models.SubmissionPending
	}
	const query = `INSERT INTO question_answers (id, question_id, student_id, answer_text, marks, feedback, status, created_at, updated_at)
        VALUES (:id, :question_id, :student_id, :answer_text, :marks, :feedback, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, answer); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create answer: %w", err)
	}
	return nil
}

// UpdateTextWhilePending overwrites the answer text of a still-pending
// answer and refreshes its timestamp. Returns false when the row was no
// longer pending, so a grade landing between read and write cannot be
// overwritten.
func (r *AnswerRepository) UpdateTextWhilePending(ctx context.Context, id, text string) (bool, error) {
	const query = `UPDATE question_answers SET answer_text = $2, updated_at = $3
        WHERE id = $1 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, id, text, time.Now().UTC(), models.SubmissionPending)
	if err != nil {
		return false, fmt.Errorf("update answer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update answer: %w", err)
	}
	return affected > 0, nil
}

// TeacherID resolves the teacher owning the class the answer's question
// belongs to.
func (r *AnswerRepository) TeacherID(ctx context.Context, answerID string) (string, error) {
	const query = `SELECT c.teacher_id
        FROM question_answers qa
        JOIN questions q ON q.id = qa.question_id
        JOIN classes c ON c.id = q.class_id
        WHERE qa.id = $1`
	var teacherID string
	if err := r.db.GetContext(ctx, &teacherID, query, answerID); err != nil {
		return "", err
	}
	return teacherID, nil
}

// Grade sets marks and feedback and moves the answer to graded.
func (r *AnswerRepository) Grade(ctx context.Context, id string, marks *float64, feedback *string) error {
	const query = `UPDATE question_answers SET marks = $2, feedback = $3, status = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, marks, feedback, models.SubmissionGraded, time.Now().UTC()); err != nil {
		return fmt.Errorf("grade answer: %w", err)
	}
	return nil
}

// ListByQuestion returns answers newest first with student info.
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID string) ([]models.AnswerDetail, error) {
	const query = `SELECT qa.id, qa.question_id, qa.student_id, qa.answer_text, qa.marks, qa.feedback, qa.status, qa.created_at, qa.updated_at,
        u.full_name AS student_name, u.profile_image_url AS student_image
        FROM question_answers qa
        JOIN users u ON u.id = qa.student_id
        WHERE qa.question_id = $1
        ORDER BY qa.created_at DESC`
	var answers []models.AnswerDetail
	if err := r.db.SelectContext(ctx, &answers, query, questionID); err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return answers, nil
}
