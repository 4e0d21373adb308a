// Package integrations provides HTTP clients for the APIs this tool consumes.
//
// # Overview
//
// Each upstream API has its own subpackage:
//
//   - [bundlephobia]: per-version package size histories
//
// # Client Pattern
//
// API clients embed the shared [Client], which provides:
//
//   - GET requests with default headers and a User-Agent
//   - Response caching through any [cache.Cache] backend, namespaced per API
//   - Retry with exponential backoff for network errors, 5xx and 429 responses
//   - Status mapping: 404 becomes [ErrNotFound], other failures [ErrNetwork]
//   - HTTP events reported to [observability.HTTP]
//
// A typical method looks like:
//
//	func (c *Client) FetchHistory(ctx context.Context, name string) (size.History, error) {
//	    var h size.History
//	    err := c.Cached(ctx, name, false, &h, func() error {
//	        return c.Get(ctx, c.baseURL+"/api/package-history?package="+integrations.URLEncode(name), &h)
//	    })
//	    return h, err
//	}
//
// Cancelling the context aborts the request and the retry loop; the error
// is the context's error and is never retried.
//
// [bundlephobia]: github.com/jamiebuilds/bundlephobia-compare/pkg/integrations/bundlephobia
// [cache.Cache]: github.com/jamiebuilds/bundlephobia-compare/pkg/cache.Cache
// [observability.HTTP]: github.com/jamiebuilds/bundlephobia-compare/pkg/observability.HTTP
package integrations
