// Package pkg provides the libraries behind bundlephobia-compare.
//
// # Overview
//
// bundlephobia-compare ranks npm packages, or groups of packages installed
// together, by the minified and gzipped size bundlephobia reports for their
// latest stable version. The pkg directory is organized into three areas:
//
//  1. Domain: [query], [size], [rank], [session], [report]
//  2. Infrastructure: [cache], [config], [errors], [observability], [buildinfo]
//  3. External APIs: [integrations]
//
// # Architecture
//
//	query text ("react+react-dom, preact")
//	         ↓
//	    [query] package (groups of package names)
//	         ↓
//	    [session] package (fetch cycles, stale result filtering, store)
//	         ↓ [integrations/bundlephobia] size histories
//	    [size] package (latest stable version → min/gzip bytes)
//	         ↓
//	    [rank] package (sum per group, order by gzip)
//	         ↓
//	    [report] package (table, JSON, DOT, SVG)
//
// # Quick Start
//
//	client := bundlephobia.NewClient(cache.NewNullCache(), "", 24*time.Hour, 0)
//	sess := session.New(session.NewStore(), nil)
//	defer sess.Close()
//
//	tasks := sess.SetInput(ctx, "react+react-dom preact")
//	if err := sess.Run(ctx, client, tasks, 6); err != nil {
//	    return err
//	}
//	fmt.Println(report.Table(sess.Ranking()))
//
// A [session.Session] is not safe for concurrent use; its [session.Store]
// is, and several sessions may share one (the HTTP server does).
//
// [query]: github.com/jamiebuilds/bundlephobia-compare/pkg/query
// [size]: github.com/jamiebuilds/bundlephobia-compare/pkg/size
// [rank]: github.com/jamiebuilds/bundlephobia-compare/pkg/rank
// [session]: github.com/jamiebuilds/bundlephobia-compare/pkg/session
// [session.Session]: github.com/jamiebuilds/bundlephobia-compare/pkg/session.Session
// [session.Store]: github.com/jamiebuilds/bundlephobia-compare/pkg/session.Store
// [report]: github.com/jamiebuilds/bundlephobia-compare/pkg/report
// [cache]: github.com/jamiebuilds/bundlephobia-compare/pkg/cache
// [config]: github.com/jamiebuilds/bundlephobia-compare/pkg/config
// [errors]: github.com/jamiebuilds/bundlephobia-compare/pkg/errors
// [observability]: github.com/jamiebuilds/bundlephobia-compare/pkg/observability
// [buildinfo]: github.com/jamiebuilds/bundlephobia-compare/pkg/buildinfo
// [integrations]: github.com/jamiebuilds/bundlephobia-compare/pkg/integrations
// [integrations/bundlephobia]: github.com/jamiebuilds/bundlephobia-compare/pkg/integrations/bundlephobia
package pkg
