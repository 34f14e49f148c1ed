package services

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorInternal     ErrorCode = "internal"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewConflictError(msg string) error { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewInternalError(msg string) error { return &ServiceError{Code: ErrorInternal, Message: msg} }

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HTTPStatus maps a service error to the status the API has always
// sent. Conflict and unauthorized both answer 400: the published
// contract returns 400 for "User already exists" and for
// "Invalid credentials".
func HTTPStatus(err error) int {
	se, ok := AsServiceError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch se.Code {
	case ErrorInvalid, ErrorConflict, ErrorUnauthorized:
		return http.StatusBadRequest
	case ErrorNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message body the API exposes for err. Internal
// failures collapse to a generic message so no detail leaks.
func PublicMessage(err error) string {
	se, ok := AsServiceError(err)
	if !ok || se.Code == ErrorInternal {
		return "Something went wrong"
	}
	return se.Message
}
