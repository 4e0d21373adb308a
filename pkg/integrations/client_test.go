package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/cache"
	apperrors "github.com/jamiebuilds/bundlephobia-compare/pkg/errors"
)

func newTestClient(t *testing.T, headers map[string]string) (*Client, *cache.FileCache) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return NewClient(c, "test:", time.Hour, headers), c
}

func TestNewClient(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer token"}
	client, c := newTestClient(t, headers)

	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache != c {
		t.Error("NewClient() cache not set correctly")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientNilCache(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, nil)
	if _, ok := client.cache.(cache.NullCache); !ok {
		t.Errorf("NewClient(nil) cache = %T, want NullCache", client.cache)
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		userAgent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
	if !strings.HasPrefix(userAgent, "bundlephobia-compare/") {
		t.Errorf("User-Agent = %q", userAgent)
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var override, custom string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		override = r.Header.Get("X-Override")
		custom = r.Header.Get("X-Custom")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, map[string]string{"X-Override": "default"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL,
		map[string]string{"X-Override": "overridden", "X-Custom": "custom"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if override != "overridden" {
		t.Errorf("X-Override = %q, want %q", override, "overridden")
	}
	if custom != "custom" {
		t.Errorf("X-Custom = %q, want %q", custom, "custom")
	}
}

func TestClientGetStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		header    map[string]string
		wantIs    error
		retryable bool
	}{
		{name: "404", status: http.StatusNotFound, wantIs: ErrNotFound},
		{name: "500", status: http.StatusInternalServerError, wantIs: ErrNetwork, retryable: true},
		{name: "403", status: http.StatusForbidden, wantIs: ErrNetwork},
		{name: "429", status: http.StatusTooManyRequests, header: map[string]string{"Retry-After": "7"}, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client, _ := newTestClient(t, nil)

			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)
			if err == nil {
				t.Fatal("Get() should return an error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Get() error = %v, want %v", err, tt.wantIs)
			}
			if got := cache.IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestClientGetRateLimitedRetryAfter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _ := newTestClient(t, nil)

	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)

	var rl *apperrors.RateLimitedError
	if !errors.As(err, &rl) {
		t.Fatalf("Get() error = %T, want RateLimitedError", err)
	}
	if rl.RetryAfter != 30 {
		t.Errorf("RetryAfter = %d, want 30", rl.RetryAfter)
	}
}

func TestClientGetCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client, _ := newTestClient(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	var resp map[string]string
	err := client.Get(ctx, server.URL, &resp)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if cache.IsRetryable(err) {
		t.Error("cancelled requests should not be retryable")
	}
}

func TestClientCached(t *testing.T) {
	client, _ := newTestClient(t, nil)

	type testData struct {
		Value string `json:"value"`
	}

	fetchCount := 0
	fetch := func(v *testData) func() error {
		return func() error {
			fetchCount++
			*v = testData{Value: "fetched"}
			return nil
		}
	}

	var first testData
	if err := client.Cached(context.Background(), "key", false, &first, fetch(&first)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}

	var second testData
	if err := client.Cached(context.Background(), "key", false, &second, fetch(&second)); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}

	if fetchCount != 1 {
		t.Errorf("fetch count = %d, want 1", fetchCount)
	}
	if second.Value != "fetched" {
		t.Errorf("cached value = %q, want %q", second.Value, "fetched")
	}
}

func TestClientCachedRefresh(t *testing.T) {
	client, _ := newTestClient(t, nil)

	fetchCount := 0
	var value string
	fetch := func() error {
		fetchCount++
		value = "fetched"
		return nil
	}

	for range 2 {
		if err := client.Cached(context.Background(), "key", true, &value, fetch); err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
	}
	if fetchCount != 2 {
		t.Errorf("fetch count = %d, want 2", fetchCount)
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client, c := newTestClient(t, nil)

	fetchCount := 0
	var value string
	err := client.Cached(context.Background(), "missing", false, &value, func() error {
		fetchCount++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v, want ErrNotFound", err)
	}
	if fetchCount != 1 {
		t.Errorf("non-retryable errors should not be retried, fetch count = %d", fetchCount)
	}

	if _, hit, _ := c.Get(context.Background(), cache.NewDefaultKeyer().HTTPKey("test:", "missing")); hit {
		t.Error("failed fetches must not be cached")
	}
}

func TestClientCachedScopedKeyer(t *testing.T) {
	client, c := newTestClient(t, nil)
	client.SetKeyer(cache.NewScopedKeyer(nil, "staging:"))

	value := "v"
	if err := client.Cached(context.Background(), "k", false, &value, func() error { return nil }); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if _, hit, _ := c.Get(context.Background(), "staging:http:test::k"); !hit {
		t.Error("value should be stored under the scoped key")
	}
}

func TestURLEncode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "react", "react"},
		{"scoped", "@babel/core", "%40babel%2Fcore"},
		{"space", "hello world", "hello+world"},
		{"special chars", "a=1&b=2", "a%3D1%26b%3D2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URLEncode(tt.input); got != tt.want {
				t.Errorf("URLEncode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	if got := NewHTTPClient(0).Timeout; got != DefaultTimeout {
		t.Errorf("NewHTTPClient(0).Timeout = %v, want %v", got, DefaultTimeout)
	}
	if got := NewHTTPClient(3 * time.Second).Timeout; got != 3*time.Second {
		t.Errorf("NewHTTPClient(3s).Timeout = %v, want 3s", got)
	}
}
