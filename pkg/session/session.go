// Package session holds the state of one comparison: the query text, the
// parsed groups, the fetched size histories and the fetch cycle in progress.
//
// # Model
//
// A [Session] follows a model-update-view loop. Inputs ([Session.SetInput],
// [Session.Refresh]) return [Task] values describing the fetches to run.
// Tasks execute anywhere (a goroutine, a bubbletea command) and produce a
// [Result], which is handed back to [Session.Apply]. Apply is the only place
// fetched data enters the [Store], and the ranking is recomputed from the
// groups and the store on demand by [Session.Ranking].
//
// # Fetch Cycles
//
// Each change of the parsed group list starts a new fetch cycle with its own
// context and cancels the previous one. Every Task and Result carries the
// cycle it belongs to, and Apply drops results from any cycle other than the
// current one. This holds even when a [Fetcher] ignores cancellation, so a
// slow response for an abandoned query can never write to the store.
//
// Names are deduplicated within a cycle but not across cycles: a name still
// in flight when its cycle is cancelled is requested again by the next one.
//
// # Usage
//
//	sess := session.New(session.NewStore(), logger)
//	defer sess.Close()
//
//	tasks := sess.SetInput(ctx, "react+react-dom, preact")
//	if err := sess.Run(ctx, client, tasks, 4); err != nil {
//	    return err
//	}
//	for _, e := range sess.Ranking() {
//	    fmt.Println(e.Label(), e.Size.Gzip)
//	}
package session

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/observability"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/query"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/rank"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/size"
)

// Fetcher retrieves the size history of one package.
type Fetcher interface {
	FetchHistory(ctx context.Context, name string) (size.History, error)
}

// FetcherFunc adapts a function to [Fetcher].
type FetcherFunc func(ctx context.Context, name string) (size.History, error)

// FetchHistory calls f.
func (f FetcherFunc) FetchHistory(ctx context.Context, name string) (size.History, error) {
	return f(ctx, name)
}

// Session is the state container for one comparison. Its methods must be
// called from a single goroutine; only [Task.Run] may run elsewhere.
type Session struct {
	ID string

	logger *log.Logger
	store  *Store
	input  string
	groups []query.Group
	cycle  uint64
	cancel context.CancelFunc
}

// New creates a session backed by store. A nil store gets a private one;
// a nil logger discards output.
func New(store *Store, logger *log.Logger) *Session {
	if store == nil {
		store = NewStore()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	id := uuid.NewString()
	return &Session{
		ID:     id,
		logger: logger.With("session", id[:8]),
		store:  store,
		cancel: func() {},
	}
}

// Input returns the text last passed to SetInput.
func (s *Session) Input() string { return s.input }

// Groups returns the parsed groups of the current input.
func (s *Session) Groups() []query.Group { return s.groups }

// Store returns the backing store.
func (s *Session) Store() *Store { return s.store }

// Cycle returns the number of the current fetch cycle; 0 before the first.
func (s *Session) Cycle() uint64 { return s.cycle }

// SetInput records new query text. When the parsed groups differ from the
// previous ones, the running cycle is cancelled and a new one is started;
// the returned tasks fetch every name of the new groups that is not stored
// yet. Unchanged groups return no tasks.
func (s *Session) SetInput(ctx context.Context, input string) []Task {
	s.input = input
	groups := query.Parse(input)
	if s.cycle > 0 && query.Equal(groups, s.groups) {
		return nil
	}
	s.groups = groups
	return s.startCycle(ctx)
}

// Refresh starts a new cycle for the current groups, retrying names whose
// earlier fetch failed.
func (s *Session) Refresh(ctx context.Context) []Task {
	return s.startCycle(ctx)
}

func (s *Session) startCycle(ctx context.Context) []Task {
	s.cancel()
	s.cycle++
	cycleCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	var tasks []Task
	for _, name := range query.Names(s.groups) {
		if s.store.Has(name) {
			continue
		}
		tasks = append(tasks, Task{Cycle: s.cycle, Name: name, ctx: cycleCtx})
	}

	observability.Fetch().OnCycleStart(cycleCtx, s.cycle, len(tasks))
	s.logger.Debug("fetch cycle", "cycle", s.cycle, "groups", query.Encode(s.groups), "requests", len(tasks))
	return tasks
}

// Task is one pending fetch belonging to a cycle.
type Task struct {
	Cycle uint64
	Name  string

	ctx context.Context
}

// Context returns the cycle context the fetch runs under. It is done once
// the cycle has been superseded.
func (t Task) Context() context.Context {
	if t.ctx == nil {
		return context.Background()
	}
	return t.ctx
}

// Run performs the fetch. It is safe to call from any goroutine.
func (t Task) Run(f Fetcher) Result {
	ctx := t.Context()
	hooks := observability.Fetch()
	hooks.OnFetchStart(ctx, t.Name)
	start := time.Now()

	h, err := f.FetchHistory(ctx, t.Name)
	hooks.OnFetchComplete(ctx, t.Name, time.Since(start), err)
	return Result{Cycle: t.Cycle, Name: t.Name, History: h, Err: err}
}

// Result is the outcome of a [Task]: a history or an error, never both.
type Result struct {
	Cycle   uint64
	Name    string
	History size.History
	Err     error
}

// Apply merges r into the session. Results from a cycle other than the
// current one are dropped without side effects. Errors are logged and leave
// the name absent so a later cycle requests it again. Apply reports whether
// the store grew.
func (s *Session) Apply(r Result) bool {
	if r.Cycle != s.cycle {
		observability.Fetch().OnResultDiscarded(context.Background(), r.Name, r.Cycle)
		return false
	}
	if r.Err != nil {
		if !errors.Is(r.Err, context.Canceled) {
			s.logger.Error("fetch failed", "package", r.Name, "err", r.Err)
		}
		return false
	}
	return s.store.Add(r.Name, r.History)
}

// Ranking returns the fully resolved groups ordered by ascending gzip size.
func (s *Session) Ranking() []rank.Entry {
	return rank.Aggregate(s.groups, s.store.Resolve)
}

// Run executes tasks with at most limit fetches in flight (no limit when
// limit <= 0) and applies each result on the calling goroutine as it
// arrives. It returns ctx.Err() if ctx ended before all tasks finished.
func (s *Session) Run(ctx context.Context, f Fetcher, tasks []Task, limit int) error {
	results := make(chan Result)

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	go func() {
		for _, t := range tasks {
			g.Go(func() error {
				results <- t.Run(f)
				return nil
			})
		}
		g.Wait()
		close(results)
	}()

	for r := range results {
		s.Apply(r)
	}
	return ctx.Err()
}

// Close cancels the current cycle.
func (s *Session) Close() {
	s.cancel()
}
