// Package apperrors defines the error taxonomy shared by every service:
// validation, not-found, conflict, authentication and authorization failures
// all carry the HTTP status they map to at the handler boundary.
package apperrors

import (
	"errors"
	"net/http"
)

type Error struct {
	code int
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Code() int { return e.code }

func New(code int, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func BadRequest(msg string) *Error { return New(http.StatusBadRequest, msg) }

func NotFound(msg string) *Error { return New(http.StatusNotFound, msg) }

func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }

func Forbidden(msg string) *Error { return New(http.StatusForbidden, msg) }

// CodeOf extracts the HTTP status from an error, defaulting to 500 for
// anything outside the taxonomy.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return http.StatusInternalServerError
}

// Canonical user-facing messages. Failure responses join one or more of
// these into the envelope's message field.
var (
	ErrInvalidName     = BadRequest("Invalid name")
	ErrInvalidEmail    = BadRequest("Invalid email")
	ErrInvalidPassword = BadRequest("Invalid password")
	ErrUserExists      = BadRequest("User already exists")
	ErrEmailTaken      = BadRequest("Email already in use")
	ErrUserNotFound    = NotFound("User not found")

	ErrNeedOwnershipOrAdmin = BadRequest("You need to be the owner or an admin")

	ErrInvalidString            = BadRequest("Invalid string")
	ErrNeedAnswer               = BadRequest("An answer is required")
	ErrInvalidOptionsArray      = BadRequest("Options must be an array of at least 2 elements")
	ErrInvalidTagsArray         = BadRequest("Tags must be an array")
	ErrOptionsMustIncludeAnswer = BadRequest("Options must include the answer")
	ErrQuestionExists           = BadRequest("Question already exists")
	ErrQuestionNotFound         = NotFound("Question not found")
	ErrFieldNotEditable         = BadRequest("Field not editable")

	ErrCollectionExists   = BadRequest("Collection already exists")
	ErrCollectionNotFound = NotFound("Collection not found")
)
