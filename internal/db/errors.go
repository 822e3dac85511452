package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

var (
	// ErrConflict reports that the database aborted a unit because a
	// concurrent unit touched the same rows. Units are never retried here;
	// the caller may resubmit the request.
	ErrConflict = errors.New("concurrent update conflict, retry the request")

	ErrNestedUnit = errors.New("unit already open in this context")
	ErrUnitClosed = errors.New("unit already committed or aborted")
)

// Classify maps isolation failures onto ErrConflict and leaves every other
// error untouched.
func Classify(err error) error {
	if err == nil || errors.Is(err, ErrConflict) {
		return err
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
	}

	return err
}

// IsUniqueViolation reports whether err carries a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
}

// IsForeignKeyViolation reports whether err carries a Postgres foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.ForeignKeyViolation
}
