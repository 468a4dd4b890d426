package application

import "errors"

var (
	// ErrInvalidCredentials is returned when a login fails. Missing accounts
	// and wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrInvalidSession is returned when a session token is expired,
	// malformed, revoked, or signed with the wrong key.
	ErrInvalidSession = errors.New("application: invalid session")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
