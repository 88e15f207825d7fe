package service

// Services signal failures through these typed errors; the REST boundary is
// the only place mapping them to status codes.

// NotFoundError indicates the referenced entity does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ConflictError indicates the operation would violate uniqueness
// (email already owned by another client).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ValidationError indicates malformed or missing required input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func notFound(msg string) error { return &NotFoundError{Message: msg} }
func conflict(msg string) error { return &ConflictError{Message: msg} }
func invalid(msg string) error  { return &ValidationError{Message: msg} }
