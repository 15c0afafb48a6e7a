package models

import "time"

// PastPaper is a static class resource referencing an uploaded document.
type PastPaper struct {
	ID          string    `db:"id" json:"id"`
	ClassID     string    `db:"class_id" json:"class_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	Year        *int      `db:"year" json:"year,omitempty"`
	PaperURL    string    `db:"paper_url" json:"paper_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Video is a static class resource referencing an external video.
type Video struct {
	ID          string    `db:"id" json:"id"`
	ClassID     string    `db:"class_id" json:"class_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	VideoURL    string    `db:"video_url" json:"video_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AddPastPaperRequest adds a past paper to a class.
type AddPastPaperRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	Year        *int    `json:"year,omitempty" validate:"omitempty,gt=1900"`
	PaperURL    string  `json:"paper_url" validate:"required"`
}

// AddVideoRequest adds a video to a class.
type AddVideoRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	VideoURL    string  `json:"video_url" validate:"required"`
}
