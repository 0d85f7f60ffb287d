// Package repository implements the domain storage ports on SQLite.
package repository

import (
	"database/sql"
	"strings"
	"time"

	"dealdesk/internal/domain"
)

// nowUTC returns the current time truncated to microseconds, which survives
// a round-trip through SQLite's text timestamp encoding.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// mapConstraintErr translates SQLite constraint violations into domain errors.
func mapConstraintErr(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrConflict(format, args...)
	}
	return err
}
