package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate is returned when an insert trips a uniqueness constraint
// (one enrollment per student+class, one attempt per question+student,
// one submission per assignment+student). Services translate it into a
// conflict at the operation boundary.
var ErrDuplicate = errors.New("duplicate row")

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
