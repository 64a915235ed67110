package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
)

// ErrorKind represents the category of failure.
type ErrorKind string

const (
	// ErrorKindModel means the provider answered but gave nothing usable.
	ErrorKindModel ErrorKind = "model_failure"
	// ErrorKindAPI covers missing credentials, transport errors and non-success statuses.
	ErrorKindAPI ErrorKind = "api_failure"
	// ErrorKindUnexpected is anything the other two kinds do not anticipate.
	ErrorKindUnexpected ErrorKind = "unexpected_failure"
)

// Error represents a provider-neutral LLM error.
type Error struct {
	Kind       ErrorKind
	ModelName  string
	Detail     string
	StatusCode int   // HTTP status when one was received
	Cause      error // Original provider-specific error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case ErrorKindModel:
		return fmt.Sprintf("error requesting answer from %s: %s", e.ModelName, e.Detail)
	case ErrorKindAPI:
		return fmt.Sprintf("error calling API for %s: %s", e.ModelName, e.Detail)
	default:
		return "unexpected or unknown error: " + e.Detail
	}
}

// Unwrap returns the underlying provider error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsModelFailure checks if an error is a model failure.
func IsModelFailure(err error) bool {
	return kindOf(err) == ErrorKindModel
}

// IsAPIFailure checks if an error is an API failure.
func IsAPIFailure(err error) bool {
	return kindOf(err) == ErrorKindAPI
}

// IsUnexpectedFailure checks if an error is an unexpected failure.
func IsUnexpectedFailure(err error) bool {
	return kindOf(err) == ErrorKindUnexpected
}

// Kind returns the failure kind of err, or "" if err is not an *Error.
func Kind(err error) ErrorKind {
	return kindOf(err)
}

func kindOf(err error) ErrorKind {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Kind
	}
	return ""
}

// NewModelFailure creates a new model failure.
func NewModelFailure(modelName, detail string, cause error) *Error {
	return &Error{
		Kind:      ErrorKindModel,
		ModelName: modelName,
		Detail:    detail,
		Cause:     cause,
	}
}

// NewAPIFailure creates a new API failure. statusCode is 0 when no response arrived.
func NewAPIFailure(modelName, detail string, statusCode int, cause error) *Error {
	return &Error{
		Kind:       ErrorKindAPI,
		ModelName:  modelName,
		Detail:     detail,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewUnexpectedFailure creates a new unexpected failure.
func NewUnexpectedFailure(detail string, cause error) *Error {
	return &Error{
		Kind:   ErrorKindUnexpected,
		Detail: detail,
		Cause:  cause,
	}
}

// StatusDetail formats the diagnostic for a non-success HTTP response.
func StatusDetail(statusCode int, body string) string {
	if body == "" {
		return fmt.Sprintf("status %d", statusCode)
	}
	return fmt.Sprintf("status %d: %s", statusCode, body)
}

// IsTransportError reports whether err came from the network or the caller's
// context rather than from a provider response.
func IsTransportError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsDecodeError reports whether err came from decoding a response body.
func IsDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
