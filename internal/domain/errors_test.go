package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindInvalidConfiguration, "InvalidConfiguration"},
		{KindMissingCredential, "MissingCredential"},
		{KindTransientModel, "TransientModelError"},
		{KindFatalModel, "FatalModelError"},
		{KindMalformedResponse, "MalformedResponse"},
		{KindFatalExtraction, "FatalExtractionError"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestIsKind(t *testing.T) {
	err := TransientModel("rate limited", nil)

	if !IsKind(err, KindTransientModel) {
		t.Error("IsKind(transient, KindTransientModel) = false")
	}
	if IsKind(err, KindFatalModel) {
		t.Error("IsKind(transient, KindFatalModel) = true")
	}
	if IsKind(nil, KindTransientModel) {
		t.Error("IsKind(nil, ...) = true")
	}
	if IsKind(errors.New("plain"), KindTransientModel) {
		t.Error("IsKind(plain error, ...) = true")
	}
}

func TestIsKindThroughWrapping(t *testing.T) {
	inner := FatalModel("invalid key", nil)
	wrapped := fmt.Errorf("processing document: %w", inner)

	if !IsKind(wrapped, KindFatalModel) {
		t.Error("IsKind does not see through fmt.Errorf wrapping")
	}
	if IsTransient(wrapped) {
		t.Error("IsTransient(fatal) = true")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := TransientModel("request failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is does not reach the cause")
	}
	if got := err.Error(); got != "TransientModelError: request failed: connection reset" {
		t.Errorf("Error() = %q", got)
	}

	bare := FatalModel("quota exhausted", nil)
	if got := bare.Error(); got != "FatalModelError: quota exhausted" {
		t.Errorf("Error() = %q", got)
	}
}
