package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBusy is returned when a generation or execution is already in flight.
	ErrBusy = errors.New("another request is already running")
	// ErrNoPendingCode is returned when confirming without generated code.
	ErrNoPendingCode = errors.New("no generated code awaiting confirmation")
	// ErrInterpreterUnavailable marks a permanently missing interpreter.
	ErrInterpreterUnavailable = errors.New("python interpreter not found")
	// ErrCodeRejected is returned when the safety validator refuses an artifact.
	ErrCodeRejected = errors.New("code rejected by safety validator")
	// ErrEmptyRequest is returned for blank user input.
	ErrEmptyRequest = errors.New("request must not be empty")
)

// ConfigurationError reports a provider that needs a credential nobody supplied.
type ConfigurationError struct {
	Provider Provider
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("no API key provided for %s", e.Provider.DisplayName())
	if env := e.Provider.CredentialEnvVar(); env != "" {
		msg += fmt.Sprintf(" (run `codeshai providers set-key %s <key>` or set %s)", e.Provider, env)
	}
	return msg
}

// TransportError reports a non-success HTTP status from a provider.
type TransportError struct {
	Provider   Provider
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: HTTP error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// InvalidResponseError reports a body that lacks the expected content field.
type InvalidResponseError struct {
	Provider Provider
	Field    string
	Err      error
}

func (e *InvalidResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: invalid response from API (%s): %v", e.Provider, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: invalid response from API (missing %s)", e.Provider, e.Field)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// TimeoutError reports an operation that exceeded its budget.
type TimeoutError struct {
	Operation string
	Budget    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Operation, e.Budget)
}

// Is lets errors.Is(err, context.DeadlineExceeded) see through a TimeoutError.
func (e *TimeoutError) Is(target error) bool {
	return target == context.DeadlineExceeded
}

// Describe converts a pipeline error into the text shown to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var (
		cfgErr     *ConfigurationError
		timeoutErr *TimeoutError
	)
	switch {
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("Error: %v", cfgErr)
	case errors.As(err, &timeoutErr):
		return "Error generating code: request timed out. Please try again."
	case errors.Is(err, ErrBusy):
		return "Error: a request is already running"
	case errors.Is(err, ErrEmptyRequest), errors.Is(err, ErrNoPendingCode):
		return fmt.Sprintf("Error: %v", err)
	case errors.Is(err, context.Canceled):
		return "Error: request cancelled"
	default:
		return fmt.Sprintf("Error generating code: %v", err)
	}
}
