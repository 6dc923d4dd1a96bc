package service

// ErrorCode identifies a domain failure in a machine-readable way.
type ErrorCode string

const (
	CodeNotFound ErrorCode = "NOT_FOUND"
	CodeConflict ErrorCode = "CONFLICT"
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error is the only error type the service layer produces for domain
// failures. Anything else bubbling out of this package is an unexpected
// store error.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func notFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

func internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}
