package errors

import (
	"errors"
	"fmt"
)

// Common error types for the admin console
var (
	// Authentication / session errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotStaff           = errors.New("account has no admin console access")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")

	// Upstream API errors
	ErrUpstream  = errors.New("upstream request failed")
	ErrTransport = errors.New("transport failure")
	ErrDecode    = errors.New("decode failure")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
