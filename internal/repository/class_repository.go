package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

// ClassRepository handles persistence of classes and their schedules.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// TeacherID returns the owning teacher of a class.
func (r *ClassRepository) TeacherID(ctx context.Context, classID string) (string, error) {
	const query = `SELECT teacher_id FROM classes WHERE id = $1`
	var teacherID string
	if err := r.db.GetContext(ctx, &teacherID, query, classID); err != nil {
		return "", err
	}
	return teacherID, nil
}

// FindByID returns a class by its ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, subject, grade, fee, teacher_id, created_at, updated_at
        FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// CreateWithSchedule inserts a class and its first schedule as one
// transaction. Neither row is visible unless both inserts succeed.
func (r *ClassRepository) CreateWithSchedule(ctx context.Context, class *models.Class, schedule *models.Schedule) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create class: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertClass = `INSERT INTO classes (id, name, subject, grade, fee, teacher_id, created_at, updated_at)
        VALUES (:id, :name, :subject, :grade, :fee, :teacher_id, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertClass, class); err != nil {
		return fmt.Errorf("insert class: %w", err)
	}

	schedule.ID = uuid.NewString()
	schedule.ClassID = class.ID
	const insertSchedule = `INSERT INTO class_schedules (id, class_id, start_time, end_time, schedule_date, recurrence, location)
        VALUES (:id, :class_id, :start_time, :end_time, :schedule_date, :recurrence, :location)`
	if _, err := tx.NamedExecContext(ctx, insertSchedule, schedule); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create class: %w", err)
	}
	return nil
}

// ListByTeacher returns the teacher's classes with schedules regrouped by
// class id. Classes without schedule rows appear with an empty slice.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassWithSchedules, error) {
	const query = `SELECT c.id, c.name, c.subject, c.grade, c.fee, c.teacher_id, c.created_at, c.updated_at,
        cs.id AS schedule_id, cs.start_time, cs.end_time, cs.schedule_date, cs.recurrence, cs.location
        FROM classes c
        LEFT JOIN class_schedules cs ON cs.class_id = c.id
        WHERE c.teacher_id = $1
        ORDER BY c.name, cs.schedule_date`
	var rows []models.ClassScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	grouped := groupScheduleRows(rows)
	out := make([]models.ClassWithSchedules, 0, len(grouped))
	for _, entry := range grouped {
		out = append(out, entry.ClassWithSchedules)
	}
	return out, nil
}

// ListCatalog returns every class with schedules and the teacher's name.
func (r *ClassRepository) ListCatalog(ctx context.Context) ([]models.CatalogEntry, error) {
	const query = `SELECT c.id, c.name, c.subject, c.grade, c.fee, c.teacher_id, c.created_at, c.updated_at,
        u.full_name AS teacher_name,
        cs.id AS schedule_id, cs.start_time, cs.end_time, cs.schedule_date, cs.recurrence, cs.location
        FROM classes c
        JOIN users u ON u.id = c.teacher_id
        LEFT JOIN class_schedules cs ON cs.class_id = c.id
        ORDER BY c.name, cs.schedule_date`
	var rows []models.ClassScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return groupScheduleRows(rows), nil
}

// ListPaidByStudent returns classes where the student's enrollment has
// completed payment.
func (r *ClassRepository) ListPaidByStudent(ctx context.Context, studentID string) ([]models.CatalogEntry, error) {
	const query = `SELECT c.id, c.name, c.subject, c.grade, c.fee, c.teacher_id, c.created_at, c.updated_at,
        u.full_name AS teacher_name, e.enrolled_at,
        cs.id AS schedule_id, cs.start_time, cs.end_time, cs.schedule_date, cs.recurrence, cs.location
        FROM enrollments e
        JOIN classes c ON c.id = e.class_id
        JOIN users u ON u.id = c.teacher_id
        LEFT JOIN class_schedules cs ON cs.class_id = c.id
        WHERE e.student_id = $1 AND e.payment_status = $2
        ORDER BY c.name, cs.schedule_date`
	var rows []models.ClassScheduleRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID, models.PaymentCompleted); err != nil {
		return nil, fmt.Errorf("list enrolled classes: %w", err)
	}
	return groupScheduleRows(rows), nil
}

// UpdateWithSchedule updates the class row and, when scheduleID is set,
// the matching schedule row inside one transaction.
func (r *ClassRepository) UpdateWithSchedule(ctx context.Context, class *models.Class, scheduleID string, schedule *models.Schedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update class: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const updateClass = `UPDATE classes SET name = $2, subject = $3, grade = $4, fee = $5, updated_at = $6
        WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateClass, class.ID, class.Name, class.Subject, class.Grade, class.Fee, time.Now().UTC()); err != nil {
		return fmt.Errorf("update class: %w", err)
	}

	if scheduleID != "" {
		const updateSchedule = `UPDATE class_schedules
            SET start_time = $3, end_time = $4, schedule_date = $5, recurrence = $6, location = $7
            WHERE id = $1 AND class_id = $2`
		if _, err := tx.ExecContext(ctx, updateSchedule, scheduleID, class.ID,
			schedule.StartTime, schedule.EndTime, schedule.ScheduleDate, schedule.Recurrence, schedule.Location); err != nil {
			return fmt.Errorf("update schedule: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update class: %w", err)
	}
	return nil
}

// Delete removes a class and its schedules in one transaction, children
// first so no schedule row ever outlives its class.
func (r *ClassRepository) Delete(ctx context.Context, classID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete class: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM class_schedules WHERE class_id = $1`, classID); err != nil {
		return fmt.Errorf("delete schedules: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, classID); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete class: %w", err)
	}
	return nil
}

// AddSchedule appends a schedule slot to an existing class.
func (r *ClassRepository) AddSchedule(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	const query = `INSERT INTO class_schedules (id, class_id, start_time, end_time, schedule_date, recurrence, location)
        VALUES (:id, :class_id, :start_time, :end_time, :schedule_date, :recurrence, :location)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("add schedule: %w", err)
	}
	return nil
}

// DeleteSchedule removes one schedule slot of a class.
func (r *ClassRepository) DeleteSchedule(ctx context.Context, classID, scheduleID string) error {
	const query = `DELETE FROM class_schedules WHERE id = $1 AND class_id = $2`
	if _, err := r.db.ExecContext(ctx, query, scheduleID, classID); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

func groupScheduleRows(rows []models.ClassScheduleRow) []models.CatalogEntry {
	index := make(map[string]int)
	out := make([]models.CatalogEntry, 0)
	for _, row := range rows {
		pos, seen := index[row.ID]
		if !seen {
			entry := models.CatalogEntry{
				ClassWithSchedules: models.ClassWithSchedules{Class: row.Class, Schedules: []models.Schedule{}},
				EnrolledAt:         row.EnrolledAt,
			}
			if row.TeacherName != nil {
				entry.TeacherName = *row.TeacherName
			}
			out = append(out, entry)
			pos = len(out) - 1
			index[row.ID] = pos
		}
		if row.ScheduleID == nil {
			continue
		}
		schedule := models.Schedule{
			ID:      *row.ScheduleID,
			ClassID: row.ID,
		}
		if row.StartTime != nil {
			schedule.StartTime = *row.StartTime
		}
		if row.EndTime != nil {
			schedule.EndTime = *row.EndTime
		}
		if row.ScheduleDate != nil {
			schedule.ScheduleDate = *row.ScheduleDate
		}
		if row.ScheduleRecur != nil {
			schedule.Recurrence = models.Recurrence(*row.ScheduleRecur)
		}
		schedule.Location = row.ScheduleLocation
		out[pos].Schedules = append(out[pos].Schedules, schedule)
	}
	return out
}
