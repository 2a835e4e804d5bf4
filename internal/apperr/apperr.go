package apperr

import (
	"errors"
	"net/http"

	"github.com/lib/pq"
)

// Error is a typed API error: a status code plus a message that is safe to
// show to the caller. Everything the services return on a business failure
// is one of these; anything else is an internal error.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error     { return New(http.StatusConflict, message) }

// From extracts a typed API error, or nil if err is something internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func IsNotFound(err error) bool {
	e := From(err)
	return e != nil && e.Status == http.StatusNotFound
}

func IsConflict(err error) bool {
	e := From(err)
	return e != nil && e.Status == http.StatusConflict
}

// uniqueViolation — код Postgres для нарушения unique-констрейнта.
const uniqueViolation = "23505"

// MapUnique turns a Postgres unique-violation into a Conflict with the
// given message; any other error passes through unchanged. Services use it
// as the race-safe backstop behind their existence pre-checks.
func MapUnique(err error, message string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return Conflict(message)
	}
	return err
}
