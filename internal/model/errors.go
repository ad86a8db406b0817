package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced book, borrowing or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller's role does not permit the action.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized is returned when credentials or tokens cannot be verified.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned by login for an unknown email or a wrong password.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	// ErrAlreadyReturned is returned when a borrowing is returned a second time.
	ErrAlreadyReturned = errors.New("book already returned")
	// ErrInvalidCopies is returned when available copies would exceed total copies.
	ErrInvalidCopies = errors.New("available copies cannot exceed total copies")
	// ErrInconsistentCopies is returned when the store rejects copy counters at commit time.
	ErrInconsistentCopies = errors.New("inconsistent copy counters")
	// ErrDuplicateISBN is returned by stores when the isbn is already taken.
	ErrDuplicateISBN = errors.New("isbn already taken")
	// ErrDuplicateEmail is returned by stores when the email is already taken.
	ErrDuplicateEmail = errors.New("email already taken")
	// ErrActiveBorrowingExists is returned by stores when the user already holds an active borrowing of the book.
	ErrActiveBorrowingExists = errors.New("active borrowing already exists")
	// ErrStorageDisabled is returned when report exports are requested without object storage.
	ErrStorageDisabled = errors.New("report storage is disabled")
)

// Human-readable validation messages reported to API clients.
const (
	MsgAlreadyBorrowed      = "You have already borrowed this book"
	MsgNotAvailable         = "This book is not available for borrowing"
	MsgDueDateInFuture      = "Due date must be in the future"
	MsgAlreadyReturned      = "Book already returned"
	MsgISBNTaken            = "Isbn has already been taken"
	MsgEmailTaken           = "Email has already been taken"
	MsgCopiesExceedTotal    = "Available copies cannot exceed total copies"
	MsgInvalidCredentials   = "Invalid email or password"
	MsgLibrarianOnly        = "Only librarians can perform this action"
	MsgLibrarianSignupClose = "Role librarian cannot be self-assigned"
)

// ValidationError carries record-level and field-level validation failures.
// It never accompanies a partial mutation.
type ValidationError struct {
	Messages []string
}

// NewValidationError builds a ValidationError from messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Has reports whether msg is among the validation messages.
func (e *ValidationError) Has(msg string) bool {
	for _, m := range e.Messages {
		if m == msg {
			return true
		}
	}
	return false
}

// AsValidationError unwraps err into a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
