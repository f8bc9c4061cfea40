package service

import "errors"

// IdentityCreationError reports that the credential store rejected identity
// creation during registration. The store's message is preserved.
type IdentityCreationError struct {
	Err error
}

func (e *IdentityCreationError) Error() string { return e.Err.Error() }
func (e *IdentityCreationError) Unwrap() error { return e.Err }

// ProfileCreationError reports that profile insertion failed after the
// identity was already created. The identity delete compensation has been
// attempted (best-effort) by the time this error is returned.
type ProfileCreationError struct {
	Err error
}

func (e *ProfileCreationError) Error() string { return e.Err.Error() }
func (e *ProfileCreationError) Unwrap() error { return e.Err }

// InvalidCredentialsError reports a failed sign-in. Message is the store's
// own message when it provided one.
type InvalidCredentialsError struct {
	Message string
}

func (e *InvalidCredentialsError) Error() string { return e.Message }

var (
	ErrSessionMissing  = errors.New("could not log in: session or user not found")
	ErrProfileNotFound = errors.New("user profile not found")
)
