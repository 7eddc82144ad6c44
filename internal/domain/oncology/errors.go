package oncology

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes failure semantics between the graph store, use cases and the HTTP edge.
type ErrorCode string

const (
	CodeNotFound            ErrorCode = "not_found"
	CodeUnknownCatalogEntry ErrorCode = "unknown_catalog_entry"
	CodeStoreUnavailable    ErrorCode = "store_unavailable"
	CodeValidation          ErrorCode = "validation"
	CodeInvariantViolation  ErrorCode = "invariant_violation"
	CodeInternal            ErrorCode = "internal"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates err with a code. Errors that already carry a code pass through unchanged.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return NewError(code, op, err.Error(), err)
}

func NotFound(op, kind, id string) error {
	return NewError(CodeNotFound, op, fmt.Sprintf("%s %q not found", kind, id), nil)
}

func Validation(op, message string) error {
	return NewError(CodeValidation, op, message, nil)
}

// IsCode checks whether err (or a wrapped error) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

func CodeOf(err error) ErrorCode {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}
