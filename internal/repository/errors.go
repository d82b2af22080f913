package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateNumericOutOfRange   = "22003"
)

func pgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}

// isConstraintViolation reports whether err is a Postgres error with the given
// SQLSTATE. A non-empty constraint narrows the match to that constraint name.
func isConstraintViolation(err error, sqlState, constraint string) bool {
	pgErr := pgError(err)
	if pgErr == nil || pgErr.Code != sqlState {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
