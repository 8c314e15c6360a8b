package types

// ErrorResponse is the generic error JSON shape returned by the API
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is the generic success JSON shape
// returned by operations that don't echo a document
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationError is reported when client-supplied data
// violates a structural rule before any write is attempted
type ValidationError struct {
	Message string
}

// NewValidationError constructs a new ValidationError
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		Message: message,
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InvalidTransitionError is reported when a status mutation
// is not allowed by the transition table
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError constructs a new InvalidTransitionError
func NewInvalidTransitionError(from Status, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{
		From: from,
		To:   to,
	}
}

func (e *InvalidTransitionError) Error() string {
	return "status cannot change from '" + string(e.From) + "' to '" + string(e.To) + "'"
}
