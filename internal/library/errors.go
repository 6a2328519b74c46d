package library

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a foreign key or check constraint violation.
	ErrConstraint = errors.New("constraint violation")
)

// mapSQLiteError converts SQLite errors to the sentinel errors above.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	// modernc.org/sqlite only exposes constraint failures through the message.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed") {
		return ErrDuplicate
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}
