package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind_Retryable(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want bool
	}{
		{KindTimeout, true},
		{KindTransport, true},
		{KindDecode, false},
		{KindProvider, false},
		{KindRetriesExhausted, false},
		{KindCanceled, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Retryable(); got != tt.want {
				t.Errorf("Retryable(%q) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}

func TestFetchError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *FetchError
		expected string
	}{
		{
			name:     "kind only",
			err:      &FetchError{Kind: KindDecode},
			expected: "fetch decode error",
		},
		{
			name:     "with status and message",
			err:      &FetchError{Kind: KindProvider, StatusCode: 400, Message: "bad latitude"},
			expected: "fetch provider error (status 400): bad latitude",
		},
		{
			name:     "with wrapped error",
			err:      &FetchError{Kind: KindTransport, Err: errors.New("connection refused")},
			expected: "fetch transport error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFetchError_Is(t *testing.T) {
	exhausted := &FetchError{Kind: KindRetriesExhausted, Err: &FetchError{Kind: KindTimeout, Err: context.DeadlineExceeded}}
	cancelled := &FetchError{Kind: KindCanceled, Err: context.Canceled}

	if !errors.Is(exhausted, ErrRetryExhausted) {
		t.Error("exhausted error does not match ErrRetryExhausted")
	}
	if errors.Is(exhausted, ErrContextCancelled) {
		t.Error("exhausted error matches ErrContextCancelled")
	}
	if !errors.Is(exhausted, context.DeadlineExceeded) {
		t.Error("exhausted error does not unwrap to the last transport cause")
	}
	if !errors.Is(cancelled, ErrContextCancelled) {
		t.Error("cancelled error does not match ErrContextCancelled")
	}
	if !errors.Is(fmt.Errorf("task: %w", cancelled), context.Canceled) {
		t.Error("wrapped cancelled error does not unwrap to context.Canceled")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("wrap: %w", &FetchError{Kind: KindDecode})); got != KindDecode {
		t.Errorf("KindOf() = %q, want %q", got, KindDecode)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %q, want empty", got)
	}
}
