package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/weekslot/internal/constants"
	"github.com/julianstephens/weekslot/internal/logger"
)

// ValidationError is a local precondition failure caught before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failed field of one input.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// Rejection means the authority received the request and declined it.
// Message is shown to the user verbatim.
type Rejection struct {
	Op      string
	Status  int
	Message string
}

func (e *Rejection) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s rejected (%d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}

// TransportFailure means the authority could not be reached or failed to answer.
type TransportFailure struct {
	Op  string
	Err error
}

func (e *TransportFailure) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportFailure) Unwrap() error { return e.Err }

// Reject builds a Rejection.
func Reject(op string, status int, message string) error {
	return &Rejection{Op: op, Status: status, Message: message}
}

// Transport wraps err as a TransportFailure.
func Transport(op string, err error) error {
	return &TransportFailure{Op: op, Err: err}
}

// IsRejection reports whether err is, or wraps, a Rejection.
func IsRejection(err error) bool {
	var r *Rejection
	return stderrors.As(err, &r)
}

// IsTransport reports whether err is, or wraps, a TransportFailure.
func IsTransport(err error) bool {
	var t *TransportFailure
	return stderrors.As(err, &t)
}

// IsValidation reports whether err is, or wraps, a validation failure.
func IsValidation(err error) bool {
	var v ValidationError
	var vs ValidationErrors
	return stderrors.As(err, &v) || stderrors.As(err, &vs)
}

// UserMessage maps err to the text shown in a notification.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var rej *Rejection
	if stderrors.As(err, &rej) && rej.Message != "" {
		return rej.Message
	}
	if IsTransport(err) {
		return constants.MsgUnreachable
	}

	var vs ValidationErrors
	if stderrors.As(err, &vs) {
		return vs.Error()
	}
	var v ValidationError
	if stderrors.As(err, &v) {
		return v.Error()
	}
	return fallback
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
