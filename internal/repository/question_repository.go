package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

// QuestionRepository handles persistence of questions and their options.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository constructs the repository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ClassID resolves the owning class of a question.
func (r *QuestionRepository) ClassID(ctx context.Context, questionID string) (string, error) {
	const query = `SELECT class_id FROM questions WHERE id = $1`
	var classID string
	if err := r.db.GetContext(ctx, &classID, query, questionID); err != nil {
		return "", err
	}
	return classID, nil
}

// FindByID returns a question without options attached.
func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	const query = `SELECT id, class_id, question_text, question_type, points, due_date, time_limit_minutes, created_at
        FROM questions WHERE id = $1`
	var question models.Question
	if err := r.db.GetContext(ctx, &question, query, id); err != nil {
		return nil, err
	}
	return &question, nil
}

// CreateWithOptions inserts a question and its options as one transaction.
func (r *QuestionRepository) CreateWithOptions(ctx context.Context, question *models.Question, options []models.Option) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	question.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create question: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertQuestionTx(ctx, tx, question); err != nil {
		return err
	}
	for i := range options {
		options[i].ID = uuid.NewString()
		options[i].QuestionID = question.ID
		if err := insertOptionTx(ctx, tx, &options[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create question: %w", err)
	}
	question.Options = options
	return nil
}

// OptionsByQuestion returns all options of a question.
func (r *QuestionRepository) OptionsByQuestion(ctx context.Context, questionID string) ([]models.Option, error) {
	const query = `SELECT id, question_id, option_text, is_correct FROM question_options WHERE question_id = $1 ORDER BY id`
	var options []models.Option
	if err := r.db.SelectContext(ctx, &options, query, questionID); err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	return options, nil
}

// OptionsByQuestions returns options for many questions keyed by question id.
func (r *QuestionRepository) OptionsByQuestions(ctx context.Context, questionIDs []string) (map[string][]models.Option, error) {
	if len(questionIDs) == 0 {
		return map[string][]models.Option{}, nil
	}
	query, args, err := sqlx.In(`SELECT id, question_id, option_text, is_correct FROM question_options WHERE question_id IN (?) ORDER BY id`, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("build options query: %w", err)
	}
	query = r.db.Rebind(query)
	var options []models.Option
	if err := r.db.SelectContext(ctx, &options, query, args...); err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	byQuestion := make(map[string][]models.Option, len(questionIDs))
	for _, option := range options {
		byQuestion[option.QuestionID] = append(byQuestion[option.QuestionID], option)
	}
	return byQuestion, nil
}

// IsCorrectOption reports whether the given option belongs to the question
// and is flagged correct.
func (r *QuestionRepository) IsCorrectOption(ctx context.Context, questionID, optionID string) (bool, error) {
	const query = `SELECT is_correct FROM question_options WHERE id = $1 AND question_id = $2`
	var correct bool
	if err := r.db.GetContext(ctx, &correct, query, optionID, questionID); err != nil {
		return false, err
	}
	return correct, nil
}

// ListByClass returns the class's questions in creation order.
func (r *QuestionRepository) ListByClass(ctx context.Context, classID string) ([]models.Question, error) {
	const query = `SELECT id, class_id, question_text, question_type, points, due_date, time_limit_minutes, created_at
        FROM questions WHERE class_id = $1 ORDER BY created_at`
	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, query, classID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// ListByClassForStudent returns the class's questions with an attempted
// flag computed from the caller's own quiz attempts.
func (r *QuestionRepository) ListByClassForStudent(ctx context.Context, classID, studentID string) ([]models.StudentQuestion, error) {
	const query = `SELECT q.id, q.class_id, q.question_text, q.question_type, q.points, q.due_date, q.time_limit_minutes, q.created_at,
        (qa.id IS NOT NULL) AS attempted
        FROM questions q
        LEFT JOIN quiz_attempts qa ON qa.question_id = q.id AND qa.student_id = $2
        WHERE q.class_id = $1
        ORDER BY q.created_at`
	var questions []models.StudentQuestion
	if err := r.db.SelectContext(ctx, &questions, query, classID, studentID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Delete removes a question; options, links, attempts and answers cascade.
func (r *QuestionRepository) Delete(ctx context.Context, questionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, questionID); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

func insertQuestionTx(ctx context.Context, tx *sqlx.Tx, question *models.Question) error {
	const query = `INSERT INTO questions (id, class_id, question_text, question_type, points, due_date, time_limit_minutes, created_at)
        VALUES (:id, :class_id, :question_text, :question_type, :points, :due_date, :time_limit_minutes, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func insertOptionTx(ctx context.Context, tx *sqlx.Tx, option *models.Option) error {
	const query = `INSERT INTO question_options (id, question_id, option_text, is_correct)
        VALUES (:id, :question_id, :option_text, :is_correct)`
	if _, err := tx.NamedExecContext(ctx, query, option); err != nil {
		return fmt.Errorf("insert option: %w", err)
	}
	return nil
}
