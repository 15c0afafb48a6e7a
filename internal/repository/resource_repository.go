package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

// ResourceRepository handles the static class resources: past papers and
// videos.
type ResourceRepository struct {
	db *sqlx.DB
}

// NewResourceRepository constructs the repository.
func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// CreatePastPaper inserts a past paper row.
func (r *ResourceRepository) CreatePastPaper(ctx context.Context, paper *models.PastPaper) error {
	if paper.ID == "" {
		paper.ID = uuid.NewString()
	}
	paper.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO past_papers (id, class_id, title, description, year, paper_url, created_at)
        VALUES (:id, :class_id, :title, :description, :year, :paper_url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, paper); err != nil {
		return fmt.Errorf("insert past paper: %w", err)
	}
	return nil
}

// CreateVideo inserts a video row.
func (r *ResourceRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	video.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO videos (id, class_id, title, description, video_url, created_at)
        VALUES (:id, :class_id, :title, :description, :video_url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, video); err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

// PastPapersByClass lists the class's past papers.
func (r *ResourceRepository) PastPapersByClass(ctx context.Context, classID string) ([]models.PastPaper, error) {
	const query = `SELECT id, class_id, title, description, year, paper_url, created_at
        FROM past_papers WHERE class_id = $1 ORDER BY created_at`
	var papers []models.PastPaper
	if err := r.db.SelectContext(ctx, &papers, query, classID); err != nil {
		return nil, fmt.Errorf("list past papers: %w", err)
	}
	return papers, nil
}

// VideosByClass lists the class's videos.
func (r *ResourceRepository) VideosByClass(ctx context.Context, classID string) ([]models.Video, error) {
	const query = `SELECT id, class_id, title, description, video_url, created_at
        FROM videos WHERE class_id = $1 ORDER BY created_at`
	var videos []models.Video
	if err := r.db.SelectContext(ctx, &videos, query, classID); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// PastPaperClassID resolves the owning class of a past paper.
func (r *ResourceRepository) PastPaperClassID(ctx context.Context, paperID string) (string, error) {
	var classID string
	if err := r.db.GetContext(ctx, &classID, `SELECT class_id FROM past_papers WHERE id = $1`, paperID); err != nil {
		return "", err
	}
	return classID, nil
}

// VideoClassID resolves the owning class of a video.
func (r *ResourceRepository) VideoClassID(ctx context.Context, videoID string) (string, error) {
	var classID string
	if err := r.db.GetContext(ctx, &classID, `SELECT class_id FROM videos WHERE id = $1`, videoID); err != nil {
		return "", err
	}
	return classID, nil
}

// DeletePastPaper removes a past paper.
func (r *ResourceRepository) DeletePastPaper(ctx context.Context, paperID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM past_papers WHERE id = $1`, paperID); err != nil {
		return fmt.Errorf("delete past paper: %w", err)
	}
	return nil
}

// DeleteVideo removes a video.
func (r *ResourceRepository) DeleteVideo(ctx context.Context, videoID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, videoID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}
