package domain

import "errors"

// Infrastructure errors - returned by stores and adapters, never shown to callers
var (
	// ErrNotFound indicates the requested record does not exist or is soft-deleted
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a store-level uniqueness constraint rejected a write
	ErrAlreadyExists = errors.New("already exists")
)

// Status is the HTTP-style classification carried by a ClassifiedError
type Status int

const (
	StatusBadRequest Status = 400
	StatusNotFound   Status = 404
	StatusInternal   Status = 500
)

// ClassifiedError is a failure with a pre-assigned caller-facing status and message.
// Anything that is not a ClassifiedError is an infrastructure error and must be
// masked before it crosses the service boundary.
type ClassifiedError struct {
	Status  Status
	Message string
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

// Domain errors - propagate unchanged to the caller
var (
	// ErrDuplicateAccount indicates an active account already uses the email
	ErrDuplicateAccount = &ClassifiedError{Status: StatusBadRequest, Message: "User already exists"}

	// ErrUserNotFound indicates no active account uses the email
	ErrUserNotFound = &ClassifiedError{Status: StatusNotFound, Message: "User not found"}

	// ErrInvalidCredentials indicates the password does not match the stored hash
	ErrInvalidCredentials = &ClassifiedError{Status: StatusBadRequest, Message: "Invalid password"}

	// ErrRegistrationFailed masks any unclassified failure during registration
	ErrRegistrationFailed = &ClassifiedError{Status: StatusInternal, Message: "Failed to register user"}

	// ErrLoginFailed masks any unclassified failure during login
	ErrLoginFailed = &ClassifiedError{Status: StatusInternal, Message: "Failed to login"}
)

// AsClassified reports whether err carries a classification and returns it.
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Classify passes a classified error through untouched and replaces anything
// else with fallback. The cause of an unclassified error is dropped.
func Classify(err error, fallback *ClassifiedError) error {
	if err == nil {
		return nil
	}
	if ce, ok := AsClassified(err); ok {
		return ce
	}
	return fallback
}
