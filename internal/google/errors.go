package google

import (
	"errors"
	"fmt"
)

// ErrNoAuthorizationSource is returned when neither an OAuth client
// configuration nor a client-secret file has been provided.
var ErrNoAuthorizationSource = errors.New("no OAuth client configuration: set GOOGLE_CREDENTIALS_PATH")

// AuthenticationError reports a failure to obtain a usable credential.
type AuthenticationError struct {
	Op  string
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("google authentication: %s: %v", e.Op, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

func authError(op string, err error) error {
	return &AuthenticationError{Op: op, Err: err}
}
