package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an error for retry and halt decisions.
type ErrorKind int

const (
	// KindInvalidConfiguration marks a bad window size or page count. Fatal, no retry.
	KindInvalidConfiguration ErrorKind = iota
	// KindMissingCredential marks an absent API key. Fatal before any model call.
	KindMissingCredential
	// KindTransientModel marks a network, timeout or rate-limit failure.
	// The caller may retry after the configured delay.
	KindTransientModel
	// KindFatalModel marks an authentication or quota-exhaustion failure.
	// Halts the document run without retry.
	KindFatalModel
	// KindMalformedResponse marks a response the stitcher could not parse.
	// The orchestrator retries the window once before escalating.
	KindMalformedResponse
	// KindFatalExtraction marks an extraction failure after retries were exhausted.
	KindFatalExtraction
)

// String returns the kind's name as used in logs and error text.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidConfiguration:
		return "InvalidConfiguration"
	case KindMissingCredential:
		return "MissingCredential"
	case KindTransientModel:
		return "TransientModelError"
	case KindFatalModel:
		return "FatalModelError"
	case KindMalformedResponse:
		return "MalformedResponse"
	case KindFatalExtraction:
		return "FatalExtractionError"
	default:
		return "UnknownError"
	}
}

// Error is the typed error carried through the extraction pipeline.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidConfiguration creates a configuration error.
func InvalidConfiguration(message string, err error) *Error {
	return &Error{Kind: KindInvalidConfiguration, Message: message, Err: err}
}

// MissingCredential creates a missing-credential error.
func MissingCredential(message string, err error) *Error {
	return &Error{Kind: KindMissingCredential, Message: message, Err: err}
}

// TransientModel creates a retryable model error.
func TransientModel(message string, err error) *Error {
	return &Error{Kind: KindTransientModel, Message: message, Err: err}
}

// FatalModel creates a non-retryable model error.
func FatalModel(message string, err error) *Error {
	return &Error{Kind: KindFatalModel, Message: message, Err: err}
}

// MalformedResponse creates a parse error for a model response.
func MalformedResponse(message string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: message, Err: err}
}

// FatalExtraction creates a fatal extraction error.
func FatalExtraction(message string, err error) *Error {
	return &Error{Kind: KindFatalExtraction, Message: message, Err: err}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsTransient reports whether err is retryable after a delay.
func IsTransient(err error) bool {
	return IsKind(err, KindTransientModel)
}
