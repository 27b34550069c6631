package geo

import (
	"errors"
	"fmt"
	"testing"
)

// TestLookupError_Message tests message formatting with and without cause
func TestLookupError_Message(t *testing.T) {
	withCause := NetworkFailure("network error while fetching geolocation", errors.New("connection refused"))
	if withCause.Error() != "network error while fetching geolocation: connection refused" {
		t.Errorf("unexpected message: %s", withCause.Error())
	}

	withoutCause := ProviderError("geolocation API error: reserved range", nil)
	if withoutCause.Error() != "geolocation API error: reserved range" {
		t.Errorf("unexpected message: %s", withoutCause.Error())
	}
}

// TestLookupError_Unwrap tests errors.Is through the wrapper
func TestLookupError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := ParseFailure("invalid response from geolocation API", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

// TestKindOf tests kind extraction, including through further wrapping
func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"invalid input", InvalidInput("bad body", nil), KindInvalidInput},
		{"network failure", NetworkFailure("timeout", nil), KindNetworkFailure},
		{"provider error", ProviderError("fail", nil), KindProviderError},
		{"parse failure", ParseFailure("garbage", nil), KindParseFailure},
		{"wrapped again", fmt.Errorf("lookup: %w", NetworkFailure("timeout", nil)), KindNetworkFailure},
		{"plain error", errors.New("something"), ErrorKind("")},
		{"nil error", nil, ErrorKind("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if kind := KindOf(tt.err); kind != tt.expected {
				t.Errorf("expected kind %q, got %q", tt.expected, kind)
			}
		})
	}
}
