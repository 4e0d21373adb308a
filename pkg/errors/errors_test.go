package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "invalid format: %s", "png")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}
	if err.Message != "invalid format: png" {
		t.Errorf("Message = %q, want %q", err.Message, "invalid format: png")
	}
	if got, want := err.Error(), "INVALID_FORMAT: invalid format: png"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrCodeNetwork, cause, "fetch %s", "react")

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got, want := err.Error(), "NETWORK_ERROR: fetch react: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestCodeLookup(t *testing.T) {
	pkgErr := New(ErrCodePackageNotFound, "package not found: nope")

	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", pkgErr, ErrCodePackageNotFound},
		{"fmt wrapped", fmt.Errorf("compare: %w", pkgErr), ErrCodePackageNotFound},
		{"outermost code wins", Wrap(ErrCodeTimeout, pkgErr, "slow"), ErrCodeTimeout},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(err, %q) = false, want true", tt.code)
			}
			if Is(tt.err, ErrCodeInvalidConfig) {
				t.Error("Is(err, INVALID_CONFIG) = true, want false")
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "concurrency must be positive")); got != "concurrency must be positive" {
		t.Errorf("UserMessage(*Error) = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestRateLimitedError(t *testing.T) {
	tests := []struct {
		err  *RateLimitedError
		want string
	}{
		{&RateLimitedError{RetryAfter: 60}, "rate limited: retry after 60 seconds"},
		{&RateLimitedError{}, "rate limited"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if tt.err.Code() != ErrCodeRateLimited {
			t.Errorf("Code() = %v, want %v", tt.err.Code(), ErrCodeRateLimited)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid format", New(ErrCodeInvalidFormat, "bad"), 400},
		{"invalid package", New(ErrCodeInvalidPackage, "bad"), 400},
		{"package not found", New(ErrCodePackageNotFound, "missing"), 404},
		{"network", Wrap(ErrCodeNetwork, errors.New("dial"), "fetch"), 502},
		{"invalid response", New(ErrCodeInvalidResponse, "garbage"), 502},
		{"timeout", New(ErrCodeTimeout, "slow"), 504},
		{"rate limited", &RateLimitedError{RetryAfter: 3}, 429},
		{"rate limited code", New(ErrCodeRateLimited, "slow down"), 429},
		{"plain error", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
