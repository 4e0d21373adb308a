// Package server serves the comparison page, a JSON API and metrics over HTTP.
//
// All requests share one [session.Store], so a package fetched for one
// visitor is never fetched again for the next. The pkgs URL parameter is the
// page state: non-canonical values are redirected to their canonical form so
// the address bar always shows the normalized query.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/query"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/session"
)

// Options configures a [Server].
type Options struct {
	// DefaultQuery is shown when a request carries no usable query.
	DefaultQuery string

	// Concurrency bounds the fetches one request runs in parallel.
	Concurrency int

	// RequestTimeout bounds the handling of a single request.
	RequestTimeout time.Duration

	// Metrics enables the /metrics endpoint and request instrumentation.
	Metrics *Metrics
}

// Server is the HTTP front end.
type Server struct {
	fetcher session.Fetcher
	store   *session.Store
	logger  *log.Logger
	opts    Options
	router  chi.Router
}

// New creates a server that fetches through f and keeps results in store.
func New(f session.Fetcher, store *session.Store, logger *log.Logger, opts Options) *Server {
	if store == nil {
		store = session.NewStore()
	}
	if opts.DefaultQuery == "" {
		opts.DefaultQuery = query.DefaultQuery
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 6
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	s := &Server{fetcher: f, store: store, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if m := s.opts.Metrics; m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/healthz", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
		r.Get("/", s.handleIndex)
		r.Get("/api/compare", s.handleCompare)
	})
	r.NotFound(s.handleNotFound)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully and returns ctx.Err().
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
