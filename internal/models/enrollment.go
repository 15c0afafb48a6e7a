package models

import "time"

// PaymentStatus tracks the enroll -> pay lifecycle.
type PaymentStatus string

// Enrollment payment states. Completed is terminal.
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Enrollment binds one student to one class, gated by payment.
type Enrollment struct {
	ID            string        `db:"id" json:"id"`
	StudentID     string        `db:"student_id" json:"student_id"`
	ClassID       string        `db:"class_id" json:"class_id"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentAmount float64       `db:"payment_amount" json:"payment_amount"`
	EnrolledAt    time.Time     `db:"enrolled_at" json:"enrolled_at"`
	PaidAt        *time.Time    `db:"paid_at" json:"paid_at,omitempty"`
}

// EnrollmentDetail enriches an enrollment with class context for rosters.
type EnrollmentDetail struct {
	Enrollment
	ClassName string `db:"class_name" json:"class_name"`
	Subject   string `db:"subject" json:"subject"`
	Grade     string `db:"grade" json:"grade"`
}

// EnrolledStudent is a roster row for teacher-facing listings.
type EnrolledStudent struct {
	StudentID       string        `db:"student_id" json:"student_id"`
	StudentName     string        `db:"student_name" json:"student_name"`
	Email           string        `db:"email" json:"email"`
	ProfileImageURL *string       `db:"profile_image_url" json:"profile_image_url,omitempty"`
	ClassID         string        `db:"class_id" json:"class_id"`
	ClassName       string        `db:"class_name" json:"class_name"`
	Subject         string        `db:"subject" json:"subject"`
	Grade           string        `db:"grade" json:"grade"`
	EnrolledAt      time.Time     `db:"enrolled_at" json:"enrolled_at"`
	PaymentStatus   PaymentStatus `db:"payment_status" json:"payment_status"`
}

// EnrollRequest starts an enrollment.
type EnrollRequest struct {
	ClassID string `json:"class_id" validate:"required"`
}

// EnrollResponse reports whether payment is still owed and how to continue.
type EnrollResponse struct {
	EnrollmentID    string  `json:"enrollment_id"`
	PaymentRequired bool    `json:"payment_required"`
	PaymentAmount   float64 `json:"payment_amount"`
	PaymentLink     *string `json:"payment_link,omitempty"`
}

// CompletePaymentResponse reports the (idempotent) completion outcome.
type CompletePaymentResponse struct {
	EnrollmentID     string `json:"enrollment_id"`
	AlreadyCompleted bool   `json:"already_completed"`
}
