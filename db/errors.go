package db

import "fmt"

// NotFoundError is an error used to encode when an ID isn't found
// for GetSingle, Update, and Delete operations
type NotFoundError struct {
	ID string
}

// NewNotFoundError constructs a new NotFoundError
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{
		ID: id,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object with ID '%s' not found in the database",
		e.ID)
}

// DuplicateEmailError is an error used to encode when a registration
// collides with an existing account's email
type DuplicateEmailError struct {
	Email string
}

// NewDuplicateEmailError constructs a new DuplicateEmailError
func NewDuplicateEmailError(email string) *DuplicateEmailError {
	return &DuplicateEmailError{
		Email: email,
	}
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("an account with email '%s' already exists",
		e.Email)
}

// ConflictError is an error used to encode when a compare-and-swap
// write observes a stale version and refuses to overwrite
type ConflictError struct {
	ID string
}

// NewConflictError constructs a new ConflictError
func NewConflictError(id string) *ConflictError {
	return &ConflictError{
		ID: id,
	}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("object with ID '%s' was modified concurrently; refresh and retry",
		e.ID)
}
