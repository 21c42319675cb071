package service

import "errors"

// ErrDatabaseMissing is reported when an operation runs without a persistence handle.
var ErrDatabaseMissing = errors.New("Database connection missing.")

// ServerError is the single error kind remote operations return.
// Message carries the underlying cause verbatim.
type ServerError struct {
	Message string
	cause   error
}

func (e *ServerError) Error() string {
	return e.Message
}

func (e *ServerError) Unwrap() error {
	return e.cause
}

func serverError(err error) *ServerError {
	return &ServerError{Message: err.Error(), cause: err}
}
