package models

import "time"

// Recurrence tags how often a schedule slot repeats.
type Recurrence string

// Supported recurrence tags.
const (
	RecurrenceWeekly   Recurrence = "weekly"
	RecurrenceBiweekly Recurrence = "biweekly"
	RecurrenceMonthly  Recurrence = "monthly"
	RecurrenceOneTime  Recurrence = "one_time"
)

// Class is a teacher-owned course offering.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Subject   string    `db:"subject" json:"subject"`
	Grade     string    `db:"grade" json:"grade"`
	Fee       *float64  `db:"fee" json:"fee,omitempty"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Schedule is a recurring meeting slot belonging to one class.
type Schedule struct {
	ID           string     `db:"id" json:"id"`
	ClassID      string     `db:"class_id" json:"class_id"`
	StartTime    string     `db:"start_time" json:"start_time"`
	EndTime      string     `db:"end_time" json:"end_time"`
	ScheduleDate time.Time  `db:"schedule_date" json:"schedule_date"`
	Recurrence   Recurrence `db:"recurrence" json:"recurrence"`
	Location     *string    `db:"location" json:"location,omitempty"`
}

// ClassWithSchedules groups a class with all of its schedule slots.
type ClassWithSchedules struct {
	Class
	Schedules []Schedule `json:"schedules"`
}

// CatalogEntry is the student-facing catalog row: a class with its
// schedules and the owning teacher's display name.
type CatalogEntry struct {
	ClassWithSchedules
	TeacherName string     `json:"teacher_name"`
	EnrolledAt  *time.Time `json:"enrolled_at,omitempty"`
}

// ClassScheduleRow is the flattened LEFT JOIN row regrouped by class id.
type ClassScheduleRow struct {
	Class
	TeacherName       *string    `db:"teacher_name"`
	EnrolledAt        *time.Time `db:"enrolled_at"`
	ScheduleID        *string    `db:"schedule_id"`
	StartTime         *string    `db:"start_time"`
	EndTime           *string    `db:"end_time"`
	ScheduleDate      *time.Time `db:"schedule_date"`
	ScheduleRecur     *string    `db:"recurrence"`
	ScheduleLocation  *string    `db:"location"`
}

// CreateClassRequest creates a class together with its first schedule.
type CreateClassRequest struct {
	Name         string   `json:"class_name" validate:"required"`
	Subject      string   `json:"subject" validate:"required"`
	Grade        string   `json:"grade" validate:"required"`
	Fee          *float64 `json:"fee,omitempty" validate:"omitempty,gte=0"`
	StartTime    string   `json:"start_time" validate:"required"`
	EndTime      string   `json:"end_time" validate:"required"`
	ScheduleDate string   `json:"schedule_date" validate:"required"`
	Recurrence   string   `json:"recurrence,omitempty" validate:"omitempty,oneof=weekly biweekly monthly one_time"`
	Location     *string  `json:"location,omitempty"`
}

// UpdateClassRequest updates a class and optionally one of its schedules.
type UpdateClassRequest struct {
	Name         string   `json:"class_name" validate:"required"`
	Subject      string   `json:"subject" validate:"required"`
	Grade        string   `json:"grade" validate:"required"`
	Fee          *float64 `json:"fee,omitempty" validate:"omitempty,gte=0"`
	ScheduleID   string   `json:"schedule_id,omitempty"`
	StartTime    string   `json:"start_time,omitempty"`
	EndTime      string   `json:"end_time,omitempty"`
	ScheduleDate string   `json:"schedule_date,omitempty"`
	Recurrence   string   `json:"recurrence,omitempty" validate:"omitempty,oneof=weekly biweekly monthly one_time"`
	Location     *string  `json:"location,omitempty"`
}

// AddScheduleRequest appends a schedule slot to an existing class.
type AddScheduleRequest struct {
	StartTime    string  `json:"start_time" validate:"required"`
	EndTime      string  `json:"end_time" validate:"required"`
	ScheduleDate string  `json:"schedule_date" validate:"required"`
	Recurrence   string  `json:"recurrence,omitempty" validate:"omitempty,oneof=weekly biweekly monthly one_time"`
	Location     *string `json:"location,omitempty"`
}
