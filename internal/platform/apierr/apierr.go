package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// StatusFor maps a domain error code to the HTTP status reported to callers.
func StatusFor(code oncology.ErrorCode) int {
	switch code {
	case oncology.CodeNotFound:
		return http.StatusNotFound
	case oncology.CodeUnknownCatalogEntry:
		return http.StatusUnprocessableEntity
	case oncology.CodeValidation:
		return http.StatusBadRequest
	case oncology.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// From converts err into an API error. Existing API errors pass through; domain
// errors keep their code; anything else becomes a 500 under fallbackCode.
func From(err error, fallbackCode string) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	var de *oncology.Error
	if errors.As(err, &de) {
		return New(StatusFor(de.Code), string(de.Code), err)
	}
	return New(http.StatusInternalServerError, fallbackCode, err)
}
