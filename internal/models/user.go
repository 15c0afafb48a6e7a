package models

import "time"

// Role separates the two actor kinds in the system.
type Role string

// Known roles.
const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// User is a teacher or student account.
type User struct {
	ID              string     `db:"id" json:"id"`
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	FullName        string     `db:"full_name" json:"full_name"`
	Role            Role       `db:"role" json:"role"`
	ProfileImageURL *string    `db:"profile_image_url" json:"profile_image_url,omitempty"`
	Active          bool       `db:"active" json:"active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	LastLoginAt     *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

// UserInfo is the public shape embedded in auth responses.
type UserInfo struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FullName        string  `json:"full_name"`
	Role            Role    `json:"role"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// UpdateProfileRequest carries mutable profile fields.
type UpdateProfileRequest struct {
	FullName        string  `json:"full_name" validate:"required"`
	ProfileImageURL *string `json:"profile_image_url,omitempty" validate:"omitempty,uri"`
}
