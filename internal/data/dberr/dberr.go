// Package dberr classifies driver failures so callers can branch on them
// without importing a specific driver.
package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConflict marks a unique constraint violation.
	ErrConflict = errors.New("db conflict")
	// ErrRetryable marks a transient failure worth retrying.
	ErrRetryable = errors.New("db retryable")
)

// Map tags err with ErrConflict or ErrRetryable when the driver reported a
// matching condition. Anything else, context errors included, is returned untouched.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrRetryable) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return errors.Join(ErrConflict, err)
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return errors.Join(ErrRetryable, err)
		}
		return err
	}

	// SQLite reports constraint failures only in the message.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate key"):
		return errors.Join(ErrConflict, err)
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "deadlock"):
		return errors.Join(ErrRetryable, err)
	}
	return err
}

// IsConflict reports whether err maps to ErrConflict.
func IsConflict(err error) bool { return errors.Is(Map(err), ErrConflict) }

// IsRetryable reports whether err maps to ErrRetryable.
func IsRetryable(err error) bool { return errors.Is(Map(err), ErrRetryable) }
