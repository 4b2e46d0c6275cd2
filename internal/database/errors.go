package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrDuplicate is returned when a unique key (room number, service name, login) already exists.
	ErrDuplicate = fmt.Errorf("%w: duplicate key", ErrConflict)
	// ErrNotAvailable is returned when a booking would overlap an active booking of the same room.
	ErrNotAvailable = fmt.Errorf("%w: room is not available for the requested dates", ErrConflict)
	// ErrConcurrentModification is returned when a row changed between read and conditional write.
	ErrConcurrentModification = fmt.Errorf("%w: booking was modified concurrently", ErrConflict)
	ErrPersistence            = errors.New("persistence failure")
)

const overlapMarker = "room_unavailable"

// PersistenceError carries the failed operation and the driver error.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// mapError translates driver errors into the package taxonomy.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrPersistence) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique,
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return ErrDuplicate
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintTrigger,
			strings.Contains(sqliteErr.Error(), overlapMarker):
			return ErrNotAvailable
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey:
			return ErrNotFound
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23P01":
			return ErrNotAvailable
		case "23503":
			return ErrNotFound
		}
	}

	return &PersistenceError{Op: op, Err: err}
}

// isRetryable reports lock contention that is worth another attempt.
func isRetryable(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
