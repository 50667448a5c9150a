package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrStateChanged is returned by conditional transitions that matched no row.
	ErrStateChanged = errors.New("row is no longer in the expected state")
	// ErrBookUnavailable is returned when a trade is accepted for a book that can no longer be traded.
	ErrBookUnavailable = errors.New("book is not available for trade")
	// ErrSerialization is returned when postgres aborts a transaction because of a concurrent update.
	ErrSerialization = errors.New("concurrent update aborted the transaction")
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// NotFoundError represents an entity not found error
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", nfe.Entity, nfe.ID)
}

// ConflictError represents a violated uniqueness constraint.
type ConflictError struct {
	Entity     string
	Constraint string
	Value      interface{}
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%s %v conflicts with an existing row (%s)", ce.Entity, ce.Value, ce.Constraint)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsConflict reports whether err is or wraps a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, config.DefaultQueryTimeout)
}

// handleError translates driver errors into the repository error types.
func handleError(operation, entity string, id interface{}, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) || IsConflict(err) ||
		errors.Is(err, ErrStateChanged) || errors.Is(err, ErrBookUnavailable) || errors.Is(err, ErrSerialization) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: id}
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') {
		case pgUniqueViolation:
			return &ConflictError{Entity: entity, Constraint: pgErr.Field('n'), Value: id}
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%s %s: %w", operation, entity, ErrSerialization)
		case pgForeignKeyViolation:
			return &NotFoundError{Entity: entity, ID: id}
		}
	}

	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

func now() time.Time {
	return time.Now().UTC()
}
