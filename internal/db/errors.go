package db

import (
	"database/sql"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("not found")

// wrapNotFound converts sql.ErrNoRows into the package sentinel so callers
// don't depend on database/sql.
func wrapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505). Matched on the message to avoid tying callers
// to a driver error type.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "23505") || strings.Contains(s, "duplicate key value")
}
