// Package bundlephobia provides an HTTP client for the bundlephobia API.
//
// # Overview
//
// bundlephobia (https://bundlephobia.com) builds npm packages and publishes
// their minified and minified+gzipped sizes. The package-history endpoint
// returns one size record per published version:
//
//	GET /api/package-history?package=react
//
//	{"16.14.0": {"size": 6483, "gzip": 2581}, "17.0.0-rc.1": {}, ...}
//
// Versions the service never built are present with an empty object.
//
// # Usage
//
//	client := bundlephobia.NewClient(fileCache, "", 24*time.Hour, 10*time.Second)
//	h, err := client.FetchHistory(ctx, "react")
//	if err != nil {
//	    return err
//	}
//	sz, ok := size.Resolve(h)
//
// # Errors
//
// Failures carry an error code from the errors package: PACKAGE_NOT_FOUND
// for unknown packages, INVALID_RESPONSE for bodies that are not a history
// object, RATE_LIMITED, TIMEOUT and NETWORK_ERROR for transport problems.
// A cancelled context is returned as the context's own error.
//
// # Caching
//
// Histories are cached under the "bundlephobia:" namespace for the TTL given
// to [NewClient]. Use [Client.FetchHistoryRefresh] with refresh=true to
// bypass the cache.
package bundlephobia
