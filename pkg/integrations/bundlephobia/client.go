package bundlephobia

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/cache"
	apperrors "github.com/jamiebuilds/bundlephobia-compare/pkg/errors"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/integrations"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/size"
)

// DefaultBaseURL is the public bundlephobia deployment.
const DefaultBaseURL = "https://bundlephobia.com"

// Namespace prefixes cache keys written by this client.
const Namespace = "bundlephobia:"

type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client for the API at baseURL (empty selects
// [DefaultBaseURL]). Responses are cached in c for ttl; a nil cache
// disables caching. timeout bounds each request.
func NewClient(c cache.Cache, baseURL string, ttl, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := integrations.NewClient(c, Namespace, ttl, nil)
	client.SetHTTPClient(integrations.NewHTTPClient(timeout))
	return &Client{
		Client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchHistory returns the per-version size history of name, using the
// response cache when possible.
func (c *Client) FetchHistory(ctx context.Context, name string) (size.History, error) {
	return c.FetchHistoryRefresh(ctx, name, false)
}

// FetchHistoryRefresh is FetchHistory with an explicit cache bypass.
func (c *Client) FetchHistoryRefresh(ctx context.Context, name string, refresh bool) (size.History, error) {
	var h size.History
	err := c.Cached(ctx, name, refresh, &h, func() error {
		return c.Get(ctx, c.historyURL(name), &h)
	})
	if err != nil {
		return nil, classify(ctx, name, err)
	}
	return h, nil
}

func (c *Client) historyURL(name string) string {
	return c.baseURL + "/api/package-history?package=" + integrations.URLEncode(name)
}

// classify maps transport and decode failures onto error codes. Context
// errors pass through untouched so callers can tell cancellation apart.
func classify(ctx context.Context, name string, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}

	var rl *apperrors.RateLimitedError
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return apperrors.Wrap(apperrors.ErrCodePackageNotFound, err, "package %s", name)
	case errors.As(err, &rl):
		return apperrors.Wrap(apperrors.ErrCodeRateLimited, err, "package %s", name)
	case errors.Is(err, size.ErrMalformedHistory), errors.As(err, &syntax), errors.As(err, &typ),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.Wrap(apperrors.ErrCodeInvalidResponse, err, "size history for %s", name)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "package %s", name)
	default:
		return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "package %s", name)
	}
}
