package util

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation           ErrorKind = "validation"
	KindNotFound             ErrorKind = "not_found"
	KindModelUnavailable     ErrorKind = "model_unavailable"
	KindNoScorableDimensions ErrorKind = "no_scorable_dimensions"
	KindCatalogIncomplete    ErrorKind = "catalog_incomplete"
	KindPersistence          ErrorKind = "persistence"
)

// AppError carries the failure class up to the controller, which is the
// only place that turns it into a status code.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *AppError) Unwrap() error { return e.Err }

// Status maps the kind to an HTTP status. Client-caused kinds are 4xx.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewModelUnavailableError(category string, err error) *AppError {
	return &AppError{Kind: KindModelUnavailable, Message: "model bundle unavailable for " + category, Err: err}
}

func NewNoScorableDimensionsError(category string) *AppError {
	return &AppError{Kind: KindNoScorableDimensions, Message: "no output of the " + category + " assessment matched the catalog"}
}

func NewCatalogIncompleteError(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindCatalogIncomplete, Message: fmt.Sprintf(format, args...)}
}

func NewPersistenceError(err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: "persisting assessment failed", Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or "".
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

var (
	ErrEmptyAnswers        = errors.New("answers must not be empty")
	ErrUnknownCategory     = errors.New("unknown assessment type")
	ErrTestAlreadyComplete = errors.New("test already completed")
	ErrDraftAlreadySubmit  = errors.New("draft already submitted")
)
