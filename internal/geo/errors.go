package geo

import "errors"

// ErrorKind classifies where a lookup failed.
// Every kind maps to the same external error envelope; the kind is kept
// for logging, metrics and tests only.
type ErrorKind string

const (
	KindInvalidInput   ErrorKind = "invalid_input"
	KindNetworkFailure ErrorKind = "network_failure"
	KindProviderError  ErrorKind = "provider_error"
	KindParseFailure   ErrorKind = "parse_failure"
)

// LookupError is a tagged lookup failure.
// It wraps the underlying cause (if any) so errors.Is/As keep working.
type LookupError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *LookupError) Unwrap() error {
	return e.Err
}

// InvalidInput tags a malformed or missing request input failure
func InvalidInput(message string, err error) *LookupError {
	return &LookupError{Kind: KindInvalidInput, Message: message, Err: err}
}

// NetworkFailure tags a transport-level failure (connection error, timeout,
// unexpected status without a parseable body)
func NetworkFailure(message string, err error) *LookupError {
	return &LookupError{Kind: KindNetworkFailure, Message: message, Err: err}
}

// ProviderError tags an error reported by the provider itself
func ProviderError(message string, err error) *LookupError {
	return &LookupError{Kind: KindProviderError, Message: message, Err: err}
}

// ParseFailure tags an unparseable provider response
func ParseFailure(message string, err error) *LookupError {
	return &LookupError{Kind: KindParseFailure, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" if err is not a LookupError
func KindOf(err error) ErrorKind {
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Kind
	}
	return ""
}
