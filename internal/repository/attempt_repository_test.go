package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shashika071/SPD-New-Final-sub000/internal/models"
)

func newAttemptRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttemptRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAttemptRepoMock(t)
	defer cleanup()
	repo := NewAttemptRepository(db)

	mock.ExpectExec("INSERT INTO quiz_attempts").
		WithArgs(sqlmock.AnyArg(), "q-1", "stu-1", "opt-1", 5, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	attempt := &models.QuizAttempt{QuestionID: "q-1", StudentID: "stu-1", OptionID: "opt-1", Score: 5, IsCorrect: true}
	require.NoError(t, repo.Create(context.Background(), attempt))
	assert.NotEmpty(t, attempt.ID)
	assert.False(t, attempt.AttemptedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepositoryCreateSecondAttempt(t *testing.T) {
	db, mock, cleanup := newAttemptRepoMock(t)
	defer cleanup()
	repo := NewAttemptRepository(db)

	mock.ExpectExec("INSERT INTO quiz_attempts").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.QuizAttempt{QuestionID: "q-1", StudentID: "stu-1", OptionID: "opt-2"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepositoryFindByQuestionAndStudent(t *testing.T) {
	db, mock, cleanup := newAttemptRepoMock(t)
	defer cleanup()
	repo := NewAttemptRepository(db)

	rows := sqlmock.NewRows([]string{"id", "question_id", "student_id", "option_id", "score", "is_correct", "attempted_at"}).
		AddRow("att-1", "q-1", "stu-1", "opt-1", 5, true, time.Now())
	mock.ExpectQuery("SELECT id, question_id, student_id, option_id").
		WithArgs("q-1", "stu-1").
		WillReturnRows(rows)

	attempt, err := repo.FindByQuestionAndStudent(context.Background(), "q-1", "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 5, attempt.Score)
	assert.True(t, attempt.IsCorrect)
	assert.NoError(t, mock.ExpectationsWereMet())
}
