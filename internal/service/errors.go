package service

import "errors"

var (
	// ErrInvalidCredentials covers an unknown email, a wrong password and a
	// refresh token whose subject no longer exists. The three cases are
	// deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDeactivated is returned when the account's active flag is cleared.
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrAccountNotEnabled is returned when an active account has not been enabled yet.
	ErrAccountNotEnabled = errors.New("account is not enabled")
)

// UniqueConstraintError reports that a value in a unique field is already on
// record. Message is safe to show to the end user.
type UniqueConstraintError struct {
	Field   string
	Message string
}

func (e *UniqueConstraintError) Error() string { return e.Message }
