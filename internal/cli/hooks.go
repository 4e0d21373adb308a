package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/observability"
)

// logHooks writes fetch, cache and HTTP events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

// installHooks routes observability events to logger.
func installHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.SetFetchHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnCycleStart(_ context.Context, cycle uint64, requested int) {
	h.logger.Debug("cycle started", "cycle", cycle, "requests", requested)
}

func (h logHooks) OnFetchStart(_ context.Context, name string) {
	h.logger.Debug("fetching", "package", name)
}

func (h logHooks) OnFetchComplete(_ context.Context, name string, d time.Duration, err error) {
	if err != nil {
		return // reported by the session
	}
	h.logger.Debug("fetched", "package", name, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnResultDiscarded(_ context.Context, name string, cycle uint64) {
	h.logger.Debug("stale result dropped", "package", name, "cycle", cycle)
}

func (h logHooks) OnCacheHit(_ context.Context, namespace string) {
	h.logger.Debug("cache hit", "namespace", namespace)
}

func (h logHooks) OnCacheMiss(_ context.Context, namespace string) {
	h.logger.Debug("cache miss", "namespace", namespace)
}

func (h logHooks) OnCacheSet(_ context.Context, namespace string, size int) {
	h.logger.Debug("cache write", "namespace", namespace, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
