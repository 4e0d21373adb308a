package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/buildinfo"
)

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// UserAgent identifies this tool to upstream APIs.
func UserAgent() string {
	return "bundlephobia-compare/" + buildinfo.Version
}

// NewHTTPClient creates an HTTP client with the given request timeout.
// A non-positive timeout selects [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// URLEncode percent-encodes a string for use in URL query values.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
