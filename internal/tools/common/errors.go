package common

import (
	"errors"
	"fmt"

	"github.com/teemow/deskhand/internal/config"
	"github.com/teemow/deskhand/internal/fields"
	"github.com/teemow/deskhand/internal/google"
)

// ErrorKind classifies tool failures.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication"
	KindParse          ErrorKind = "parse"
	KindExternalCall   ErrorKind = "external_call"
	KindConfiguration  ErrorKind = "configuration"
	KindInternal       ErrorKind = "internal"
)

// ToolError attaches an explicit kind to an error.
type ToolError struct {
	Kind ErrorKind
	Err  error
}

func (e *ToolError) Error() string {
	return e.Err.Error()
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// NewToolError wraps err with kind.
func NewToolError(kind ErrorKind, err error) error {
	return &ToolError{Kind: kind, Err: err}
}

// Errorf formats an error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) error {
	return &ToolError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Classify returns the kind of err. Unknown errors come from the external
// service a tool called.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Kind
	}

	var authErr *google.AuthenticationError
	if errors.As(err, &authErr) {
		return KindAuthentication
	}

	var parseErr *fields.ParseError
	var missingFieldErr *fields.MissingFieldError
	if errors.As(err, &parseErr) || errors.As(err, &missingFieldErr) {
		return KindParse
	}

	var missingErr *config.MissingError
	if errors.As(err, &missingErr) {
		return KindConfiguration
	}

	return KindExternalCall
}
