package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/cache"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/config"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/integrations/bundlephobia"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/observability"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/report"
)

// newUpstream fakes the bundlephobia history endpoint.
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	sizes := map[string][2]int{
		"react":     {6000, 2500},
		"react-dom": {130000, 42000},
		"preact":    {10000, 4000},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := sizes[r.URL.Query().Get("package")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"1.0.0":{"size":%d,"gzip":%d},"2.0.0-beta.1":{"size":1,"gzip":1}}`, s[0], s[1])
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestCLI(t *testing.T, apiURL string) *CLI {
	t.Helper()
	old := statusOut
	statusOut = io.Discard
	t.Cleanup(func() { statusOut = old })
	t.Cleanup(observability.Reset)

	c := New(io.Discard, log.InfoLevel)
	c.cfg = config.Default()
	c.cfg.APIURL = apiURL
	c.cfg.Cache.Backend = config.BackendNone
	return c
}

func TestRunCompareJSON(t *testing.T) {
	c := newTestCLI(t, newUpstream(t).URL)
	out := filepath.Join(t.TempDir(), "sizes.json")

	ctx := withLogger(context.Background(), c.Logger)
	err := c.runCompare(ctx, "react+react-dom preact missing", compareOpts{format: "json", output: out})
	if err != nil {
		t.Fatalf("runCompare() error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var rows []report.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (missing is unresolved)", len(rows))
	}
	if rows[0].Label != "preact" || rows[0].Gzip != 4000 {
		t.Errorf("rows[0] = %+v, want preact with gzip 4000", rows[0])
	}
	if rows[1].Label != "react+react-dom" || rows[1].Min != 136000 || rows[1].Gzip != 44500 {
		t.Errorf("rows[1] = %+v, want summed react+react-dom", rows[1])
	}
}

func TestRunCompareDefaultQuery(t *testing.T) {
	c := newTestCLI(t, newUpstream(t).URL)
	c.cfg.DefaultQuery = "preact"
	out := filepath.Join(t.TempDir(), "out.json")

	if err := c.runCompare(context.Background(), " , ", compareOpts{format: "json", output: out}); err != nil {
		t.Fatalf("runCompare() error: %v", err)
	}
	data, _ := os.ReadFile(out)
	var rows []report.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Label != "preact" {
		t.Errorf("rows = %+v, want the default query", rows)
	}
}

func TestRunCompareInvalidFormat(t *testing.T) {
	c := newTestCLI(t, "http://127.0.0.1:0")
	err := c.runCompare(context.Background(), "react", compareOpts{format: "png"})
	if err == nil {
		t.Fatal("runCompare() should reject unknown formats")
	}
}

func TestRunCompareCancelled(t *testing.T) {
	c := newTestCLI(t, newUpstream(t).URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.runCompare(ctx, "react", compareOpts{format: "json", output: filepath.Join(t.TempDir(), "x")})
	if err != context.Canceled {
		t.Errorf("runCompare() error = %v, want context.Canceled", err)
	}
}

func TestConcurrency(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	c.cfg.Concurrency = 4
	if got := c.concurrency(0); got != 4 {
		t.Errorf("concurrency(0) = %d, want config value 4", got)
	}
	if got := c.concurrency(9); got != 9 {
		t.Errorf("concurrency(9) = %d, want flag value 9", got)
	}
}

func TestNewCacheNoCacheFlag(t *testing.T) {
	c := newTestCLI(t, "")
	c.cfg.Cache.Backend = config.BackendFile
	c.noCache = true

	store, err := c.newCache(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := store.Get(context.Background(), "k"); hit {
		t.Error("--no-cache should yield an empty cache")
	}
}

func TestFileCacheUsesConfiguredDir(t *testing.T) {
	c := newTestCLI(t, "")
	c.cfg.Cache.Dir = t.TempDir()

	fc, err := c.fileCache()
	if err != nil {
		t.Fatal(err)
	}
	if fc.Dir() != c.cfg.Cache.Dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), c.cfg.Cache.Dir)
	}
}

func TestRunCompareScopedCacheKeys(t *testing.T) {
	c := newTestCLI(t, newUpstream(t).URL)
	c.cfg.Cache.Backend = config.BackendFile
	c.cfg.Cache.Dir = t.TempDir()
	c.cfg.Cache.KeyPrefix = "staging:"

	out := filepath.Join(t.TempDir(), "out.json")
	if err := c.runCompare(context.Background(), "preact", compareOpts{format: "json", output: out}); err != nil {
		t.Fatalf("runCompare() error: %v", err)
	}

	fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
	if err != nil {
		t.Fatal(err)
	}
	key := "staging:" + cache.NewDefaultKeyer().HTTPKey(bundlephobia.Namespace, "preact")
	if _, hit, _ := fc.Get(context.Background(), key); !hit {
		t.Errorf("response should be cached under %q", key)
	}
}
