package client

import (
	"errors"
	"fmt"

	"garrison/internal/access"
)

// AuthError reports a failed login. Recoverable: the user may retry.
type AuthError struct {
	Reason string // "invalid_credentials" or "network"
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("auth failed (%s)", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// AccessDeniedError reports that the actor's role does not admit the
// resource. Terminal for that navigation; never retried.
type AccessDeniedError struct {
	Role     access.Role
	Resource access.Resource
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("role %q may not access %s", e.Role, e.Resource)
}

// FetchError reports a failed backend call.
type FetchError struct {
	Kind string // "network" or "unauthorized"
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch failed (%s)", e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ValidationError reports client-detected malformed input. The request is
// blocked before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsUnauthorized reports whether err is a FetchError caused by an expired
// or invalid token. Callers seeing this are already logged out.
func IsUnauthorized(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == "unauthorized"
}

// IsNetwork reports whether err is a transient transport failure the user
// may manually retry.
func IsNetwork(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == "network"
}
