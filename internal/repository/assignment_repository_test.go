package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

func newAssignmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAssignmentRepositoryHasSubmission(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("asg-1", "stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	submitted, err := repo.HasSubmission(context.Background(), "asg-1", "stu-1")
	require.NoError(t, err)
	assert.True(t, submitted)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("asg-1", "stu-2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	submitted, err = repo.HasSubmission(context.Background(), "asg-1", "stu-2")
	require.NoError(t, err)
	assert.False(t, submitted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryLinkedQuestions(t *testing.T) {
	db, mock, cleanup := newAssignmentRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "class_id", "question_text", "question_type", "points", "due_date", "time_limit_minutes", "created_at", "assignment_points"}).
		AddRow("q-1", "class-1", "2 + 2 = ?", string(models.QuestionMultipleChoice), 5, nil, 10, now, 10).
		AddRow("q-2", "class-1", "Explain photosynthesis", string(models.QuestionShortAnswer), 5, nil, nil, now, 5)
	mock.ExpectQuery("SELECT q.id, q.class_id").
		WithArgs("asg-1").
		WillReturnRows(rows)

	questions, err := repo.LinkedQuestions(context.Background(), "asg-1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, 10, questions[0].AssignmentPoints)
	assert.Equal(t, models.QuestionShortAnswer, questions[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
