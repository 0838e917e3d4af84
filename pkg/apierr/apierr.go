// Package apierr defines the error taxonomy shared by the gateway, the
// session manager and the workflows.
//
// Four kinds of failure exist, and callers branch on them with errors.As:
//
//	AuthError:       no usable local session, raised before any network call
//	ValidationError: client-side input check failed, never reaches the network
//	RemoteError:     backend answered with a non-2xx status
//	TransportError:  the request never completed
//
// RemoteError carries the message and the status code separately, so display
// code can decide whether to show the "(422)" suffix.
package apierr

import (
	"errors"
	"fmt"
	"strings"
)

// AuthError means there is no valid session to act with.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// NotAuthenticated returns the canonical AuthError raised by authenticated
// gateway operations when no token is present.
func NotAuthenticated() *AuthError {
	return &AuthError{Message: "Not authenticated"}
}

// ValidationError is a client-side input failure, resolved without a network
// round trip. Fields holds field-level messages when the failure came from
// struct validation.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, msg := range e.Fields {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// Validation builds a ValidationError with a single message.
func Validation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// RemoteError is a non-2xx backend response with a normalized message.
type RemoteError struct {
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// TransportError wraps a request that never produced a response. The
// underlying transport message propagates unchanged, without a status suffix.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// Display returns the user-facing message for err: the status suffix is
// stripped from RemoteError, everything else passes through.
func Display(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Message
	}
	return err.Error()
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
