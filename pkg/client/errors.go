package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the fetcher.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the caller cancels a fetch.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrCircuitOpen is returned while the circuit breaker rejects requests.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// ErrorKind classifies a fetch failure.
type ErrorKind string

const (
	// KindTimeout means no response arrived within the per-attempt deadline.
	KindTimeout ErrorKind = "timeout"

	// KindTransport covers connection, DNS and TLS failures as well as
	// 5xx, 408 and 429 responses.
	KindTransport ErrorKind = "transport"

	// KindDecode means the response body is malformed.
	KindDecode ErrorKind = "decode"

	// KindProvider means the provider reported a logical error.
	KindProvider ErrorKind = "provider"

	// KindRetriesExhausted is terminal after the last allowed retry failed.
	KindRetriesExhausted ErrorKind = "retries_exhausted"

	// KindCanceled means the caller aborted the fetch.
	KindCanceled ErrorKind = "canceled"
)

// Retryable reports whether a failure of this kind may be retried.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindTimeout, KindTransport:
		return true
	default:
		return false
	}
}

// FetchError is the error returned by Fetcher and Gateway.
type FetchError struct {
	Kind        ErrorKind
	Fingerprint string
	StatusCode  int
	Attempts    int
	Message     string
	Err         error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s error", e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = msg + ": " + e.Message
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by kind.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrRetryExhausted:
		return e.Kind == KindRetriesExhausted
	case ErrContextCancelled:
		return e.Kind == KindCanceled
	}
	return false
}

// KindOf returns the kind of err, or "" if err is not a FetchError.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
