package custom_error

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicate         = errors.New("resource already exists")
	ErrValidation        = errors.New("validation failed")
	ErrInUse             = errors.New("resource is still in use")
)

type CustomError interface {
	Error() string
}

type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

type CheckViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23514")
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func (e *UniqueViolationError) Unwrap() error { return ErrDuplicate }

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func (f *ForeignKeyViolationError) Unwrap() error { return ErrInUse }

func (c *CheckViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", c.message, c.code)
}

func (c *CheckViolationError) Unwrap() error { return ErrInsufficientStock }

func WrapDBError(message, code string) CustomError {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	case "23514":
		return &CheckViolationError{
			message: message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

// FromPQ translates constraint violations reported by postgres, other errors are wrapped with message.
func FromPQ(err error, message string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505", "23503", "23514":
			return WrapDBError(message, string(pqErr.Code))
		}
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DomainError carries a client facing message and unwraps to one of the sentinels above.
type DomainError struct {
	kind    error
	message string
}

func (e *DomainError) Error() string { return e.message }

func (e *DomainError) Unwrap() error { return e.kind }

func Validation(format string, args ...any) error {
	return &DomainError{kind: ErrValidation, message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &DomainError{kind: ErrNotFound, message: fmt.Sprintf(format, args...)}
}

func Insufficient(format string, args ...any) error {
	return &DomainError{kind: ErrInsufficientStock, message: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...any) error {
	return &DomainError{kind: ErrDuplicate, message: fmt.Sprintf(format, args...)}
}

func InUse(format string, args ...any) error {
	return &DomainError{kind: ErrInUse, message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
