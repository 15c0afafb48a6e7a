package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create persists a new pending enrollment. The unique constraint on
// (student_id, class_id) backs the one-enrollment invariant; violations
// surface as ErrDuplicate regardless of payment status.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	if enrollment.PaymentStatus == "" {
		enrollment.PaymentStatus = models.PaymentPending
	}
	const query = `INSERT INTO enrollments (id, student_id, class_id, payment_status, payment_amount, enrolled_at, paid_at)
        VALUES (:id, :student_id, :class_id, :payment_status, :payment_amount, :enrolled_at, :paid_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindByIDForStudent returns the enrollment only when it belongs to the
// given student.
func (r *EnrollmentRepository) FindByIDForStudent(ctx context.Context, id, studentID string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, class_id, payment_status, payment_amount, enrolled_at, paid_at
        FROM enrollments WHERE id = $1 AND student_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id, studentID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// MarkCompleted flips a pending enrollment to completed and stamps the
// payment time. Returns false when the row was already completed, which
// keeps concurrent completions idempotent at the storage layer.
func (r *EnrollmentRepository) MarkCompleted(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE enrollments SET payment_status = $2, paid_at = $3
        WHERE id = $1 AND payment_status = $4`
	result, err := r.db.ExecContext(ctx, query, id, models.PaymentCompleted, time.Now().UTC(), models.PaymentPending)
	if err != nil {
		return false, fmt.Errorf("complete enrollment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete enrollment: %w", err)
	}
	return affected > 0, nil
}

// HasCompleted reports whether the student holds a paid enrollment on the
// class. This is the resource visibility gate.
func (r *EnrollmentRepository) HasCompleted(ctx context.Context, studentID, classID string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2 AND payment_status = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, classID, models.PaymentCompleted); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// PaidClassRefs returns (class id, class name) for every paid enrollment
// of the student.
func (r *EnrollmentRepository) PaidClassRefs(ctx context.Context, studentID string) ([]models.ClassRef, error) {
	const query = `SELECT c.id AS class_id, c.name AS class_name
        FROM enrollments e
        JOIN classes c ON c.id = e.class_id
        WHERE e.student_id = $1 AND e.payment_status = $2
        ORDER BY c.name`
	var refs []models.ClassRef
	if err := r.db.SelectContext(ctx, &refs, query, studentID, models.PaymentCompleted); err != nil {
		return nil, fmt.Errorf("list paid classes: %w", err)
	}
	return refs, nil
}

// StudentsByTeacher returns every student enrolled in any of the
// teacher's classes, with class context and payment state.
func (r *EnrollmentRepository) StudentsByTeacher(ctx context.Context, teacherID string) ([]models.EnrolledStudent, error) {
	const query = `SELECT u.id AS student_id, u.full_name AS student_name, u.email, u.profile_image_url,
        e.class_id, c.name AS class_name, c.subject, c.grade, e.enrolled_at, e.payment_status
        FROM enrollments e
        JOIN users u ON u.id = e.student_id
        JOIN classes c ON c.id = e.class_id
        WHERE c.teacher_id = $1
        ORDER BY u.full_name`
	var students []models.EnrolledStudent
	if err := r.db.SelectContext(ctx, &students, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher students: %w", err)
	}
	return students, nil
}

// ByStudentForTeacher returns the student's enrollments restricted to the
// teacher's own classes.
func (r *EnrollmentRepository) ByStudentForTeacher(ctx context.Context, studentID, teacherID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.class_id, e.payment_status, e.payment_amount, e.enrolled_at, e.paid_at,
        c.name AS class_name, c.subject, c.grade
        FROM enrollments e
        JOIN classes c ON c.id = e.class_id
        WHERE e.student_id = $1 AND c.teacher_id = $2
        ORDER BY e.enrolled_at DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID, teacherID); err != nil {
		return nil, fmt.Errorf("list student enrollments: %w", err)
	}
	return enrollments, nil
}
