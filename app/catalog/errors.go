package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound marks a lookup by identifier that matched no record.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned by stores when a username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidPageSize is returned by PageCount for a non-positive page size.
	ErrInvalidPageSize = errors.New("page size must be positive")
)

// NotFound wraps ErrNotFound with the kind and identifier that were looked up.
func NotFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// ValidationError reports every field of a payload that broke a constraint.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// UnexpectedError is any failure outside the documented contract, such as an
// unreachable database. Op names the operation that failed.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *UnexpectedError) Unwrap() error { return e.Err }

// Unexpected wraps err as an UnexpectedError unless it is nil or already
// part of the documented taxonomy.
func Unexpected(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateUsername) || errors.As(err, &ve) {
		return err
	}
	var ue *UnexpectedError
	if errors.As(err, &ue) {
		return err
	}
	return &UnexpectedError{Op: op, Err: err}
}
