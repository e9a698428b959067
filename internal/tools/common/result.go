package common

import "fmt"

const failureMark = "❌"

// Result is the outcome of one tool call.
type Result struct {
	// Text is the success output, or, for a failure, an explicit replacement
	// for the default rendering.
	Text string
	// Message prefixes the cause of a failure, e.g. "Error sending email".
	Message string
	Err     error
}

// Success returns a successful result.
func Success(text string) Result {
	return Result{Text: text}
}

// Successf formats a successful result.
func Successf(format string, args ...any) Result {
	return Result{Text: fmt.Sprintf(format, args...)}
}

// Failure returns a failed result rendered as "❌ message: cause".
func Failure(message string, err error) Result {
	return Result{Message: message, Err: err}
}

// FailureText returns a failed result rendered as "❌ text".
func FailureText(text string, err error) Result {
	return Result{Text: text, Err: err}
}

// Failed reports whether the call failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Kind returns the error kind of a failed result, or "".
func (r Result) Kind() ErrorKind {
	return Classify(r.Err)
}

// String renders the result for the orchestrator.
func (r Result) String() string {
	if r.Err == nil {
		return r.Text
	}
	if r.Text != "" {
		return failureMark + " " + r.Text
	}
	if r.Message == "" {
		return fmt.Sprintf("%s %v", failureMark, r.Err)
	}
	return fmt.Sprintf("%s %s: %v", failureMark, r.Message, r.Err)
}
