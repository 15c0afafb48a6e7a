package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

func newAnswerRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAnswerRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newAnswerRepoMock(t)
	defer cleanup()
	repo := NewAnswerRepository(db)

	mock.ExpectExec("INSERT INTO question_answers").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.QuestionAnswer{QuestionID: "q-1", StudentID: "stu-1", AnswerText: "essay"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerRepositoryUpdateTextWhilePending(t *testing.T) {
	db, mock, cleanup := newAnswerRepoMock(t)
	defer cleanup()
	repo := NewAnswerRepository(db)

	mock.ExpectExec("UPDATE question_answers SET answer_text").
		WithArgs("ans-1", "revised", sqlmock.AnyArg(), string(models.SubmissionPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.UpdateTextWhilePending(context.Background(), "ans-1", "revised")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerRepositoryUpdateTextGradedAnswerUntouched(t *testing.T) {
	db, mock, cleanup := newAnswerRepoMock(t)
	defer cleanup()
	repo := NewAnswerRepository(db)

	mock.ExpectExec("UPDATE question_answers SET answer_text").
		WithArgs("ans-1", "revised", sqlmock.AnyArg(), string(models.SubmissionPending)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.UpdateTextWhilePending(context.Background(), "ans-1", "revised")
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerRepositoryGrade(t *testing.T) {
	db, mock, cleanup := newAnswerRepoMock(t)
	defer cleanup()
	repo := NewAnswerRepository(db)

	marks := 8.5
	feedback := "good work"
	mock.ExpectExec("UPDATE question_answers SET marks").
		WithArgs("ans-1", marks, feedback, string(models.SubmissionGraded), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Grade(context.Background(), "ans-1", &marks, &feedback))
	assert.NoError(t, mock.ExpectationsWereMet())
}
