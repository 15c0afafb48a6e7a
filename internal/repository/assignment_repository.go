package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

// AssignmentRepository handles persistence of assignments and their
// question links.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ClassID resolves the owning class of an assignment.
func (r *AssignmentRepository) ClassID(ctx context.Context, assignmentID string) (string, error) {
	const query = `SELECT class_id FROM assignments WHERE id = $1`
	var classID string
	if err := r.db.GetContext(ctx, &classID, query, assignmentID); err != nil {
		return "", err
	}
	return classID, nil
}

// FindByID returns an assignment by its ID.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	const query = `SELECT id, class_id, title, description, due_date, total_points, created_at
        FROM assignments WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// AssignmentQuestionDef is one question definition created with an
// assignment: the question, its options and the link point override.
type AssignmentQuestionDef struct {
	Question models.Question
	Options  []models.Option
	Points   int
}

// CreateWithQuestions inserts the assignment, a brand-new question (plus
// options) per definition and the link rows, all in one transaction.
func (r *AssignmentRepository) CreateWithQuestions(ctx context.Context, assignment *models.Assignment, defs []AssignmentQuestionDef) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	assignment.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create assignment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertAssignment = `INSERT INTO assignments (id, class_id, title, description, due_date, total_points, created_at)
        VALUES (:id, :class_id, :title, :description, :due_date, :total_points, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertAssignment, assignment); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}

	for i := range defs {
		question := &defs[i].Question
		question.ID = uuid.NewString()
		question.ClassID = assignment.ClassID
		question.CreatedAt = time.Now().UTC()
		if err := insertQuestionTx(ctx, tx, question); err != nil {
			return err
		}
		for j := range defs[i].Options {
			defs[i].Options[j].ID = uuid.NewString()
			defs[i].Options[j].QuestionID = question.ID
			if err := insertOptionTx(ctx, tx, &defs[i].Options[j]); err != nil {
				return err
			}
		}
		const link = `INSERT INTO assignment_questions (assignment_id, question_id, points) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, link, assignment.ID, question.ID, defs[i].Points); err != nil {
			return fmt.Errorf("link assignment question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create assignment: %w", err)
	}
	return nil
}

// ListByClass returns the class's assignments in creation order.
func (r *AssignmentRepository) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	const query = `SELECT id, class_id, title, description, due_date, total_points, created_at
        FROM assignments WHERE class_id = $1 ORDER BY created_at`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, classID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListByClassForStudent returns assignments with a submitted flag computed
// from the caller's own submissions.
func (r *AssignmentRepository) ListByClassForStudent(ctx context.Context, classID, studentID string) ([]models.StudentAssignment, error) {
	const query = `SELECT a.id, a.class_id, a.title, a.description, a.due_date, a.total_points, a.created_at,
        (s.id IS NOT NULL) AS submitted
        FROM assignments a
        LEFT JOIN assignment_submissions s ON s.assignment_id = a.id AND s.student_id = $2
        WHERE a.class_id = $1
        ORDER BY a.created_at`
	var assignments []models.StudentAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, classID, studentID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// LinkedQuestions returns the assignment's questions with point overrides.
func (r *AssignmentRepository) LinkedQuestions(ctx context.Context, assignmentID string) ([]models.AssignmentQuestion, error) {
	const query = `SELECT q.id, q.class_id, q.question_text, q.question_type, q.points, q.due_date, q.time_limit_minutes, q.created_at,
        aq.points AS assignment_points
        FROM assignment_questions aq
        JOIN questions q ON q.id = aq.question_id
        WHERE aq.assignment_id = $1
        ORDER BY q.created_at`
	var questions []models.AssignmentQuestion
	if err := r.db.SelectContext(ctx, &questions, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list assignment questions: %w", err)
	}
	return questions, nil
}

// HasSubmission reports whether the student already submitted.
func (r *AssignmentRepository) HasSubmission(ctx context.Context, assignmentID, studentID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM assignment_submissions WHERE assignment_id = $1 AND student_id = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, assignmentID, studentID); err != nil {
		return false, fmt.Errorf("count submissions: %w", err)
	}
	return count > 0, nil
}

// Delete removes an assignment; links, submissions and answers cascade.
func (r *AssignmentRepository) Delete(ctx context.Context, assignmentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, assignmentID); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
