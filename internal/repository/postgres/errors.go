package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgDuplicateError checks if error is a unique constraint violation (23505)
func IsPgDuplicateError(err error) bool {
	return pgErrorCode(err) == "23505"
}

// IsPgForeignKeyError checks if error is a foreign key violation (23503)
func IsPgForeignKeyError(err error) bool {
	return pgErrorCode(err) == "23503"
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// PgConstraintName returns the violated constraint, or "" for other errors
func PgConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsValidID reports whether id can be compared against a uuid column.
// Malformed IDs cannot match any row, so callers treat them as not found.
func IsValidID(id string) bool {
	return uuid.Validate(id) == nil
}
