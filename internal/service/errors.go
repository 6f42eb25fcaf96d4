package service

import "errors"

// Sentinel kinds for service errors. Handlers map these to HTTP statuses.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrGone         = errors.New("gone")
	ErrInternal     = errors.New("internal")
)

// Error wraps a sentinel kind with a machine-readable code and a
// human-readable message for the handler to return.
type Error struct {
	Err     error
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// NewError creates an Error wrapping the given sentinel.
func NewError(sentinel error, code, message string) *Error {
	return &Error{Err: sentinel, Code: code, Message: message}
}

func NotFound(code, message string) *Error {
	return NewError(ErrNotFound, code, message)
}

func Forbidden(code, message string) *Error {
	return NewError(ErrForbidden, code, message)
}

func Conflict(code, message string) *Error {
	return NewError(ErrConflict, code, message)
}

func BadRequest(code, message string) *Error {
	return NewError(ErrBadRequest, code, message)
}

func Unauthorized(code, message string) *Error {
	return NewError(ErrUnauthorized, code, message)
}

func Gone(code, message string) *Error {
	return NewError(ErrGone, code, message)
}

func Internal(code, message string) *Error {
	return NewError(ErrInternal, code, message)
}
