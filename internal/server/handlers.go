package server

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	apperrors "github.com/jamiebuilds/bundlephobia-compare/pkg/errors"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/query"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/rank"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/report"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/session"
)

type compareResponse struct {
	Query   string       `json:"query"`
	Share   string       `json:"share"`
	Results []report.Row `json:"results"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleIndex renders the comparison page. A form submission (?q=) and any
// pkgs value that is missing or not in canonical form redirect to the
// canonical URL first.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if params := r.URL.Query(); params.Has("q") {
		s.redirect(w, r, s.groupsOrDefault(query.Parse(params.Get("q"))))
		return
	}

	raw, present := query.RawParam(r.URL.RawQuery)
	groups := s.groupsOrDefault(query.Parse(raw))
	if !present || raw != query.Encode(groups) {
		s.redirect(w, r, groups)
		return
	}

	entries, err := s.compare(r.Context(), groups)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = renderPage(&buf, pageData{
		Input:   query.Format(groups),
		Entries: entries,
		Share:   template.URL(query.QueryString(groups)),
	})
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleCompare returns the ranking as JSON, or in the report format named
// by the format parameter.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	format := report.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := report.ParseFormat(f)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		format = parsed
	}

	raw, _ := query.RawParam(r.URL.RawQuery)
	groups := s.groupsOrDefault(query.Parse(raw))
	entries, err := s.compare(r.Context(), groups)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if format == report.FormatJSON {
		writeJSON(w, http.StatusOK, compareResponse{
			Query:   query.Encode(groups),
			Share:   query.QueryString(groups),
			Results: report.JSONRows(entries),
		})
		return
	}

	var buf bytes.Buffer
	if err := report.Write(r.Context(), &buf, format, entries); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render %s", format))
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"packages": s.store.Len(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, apperrors.New(apperrors.ErrCodeNotFound, "no route for %s", r.URL.Path))
}

// compare runs one fetch cycle for groups against the shared store.
func (s *Server) compare(ctx context.Context, groups []query.Group) ([]rank.Entry, error) {
	sess := session.New(s.store, s.logger)
	defer sess.Close()

	tasks := sess.SetInput(ctx, query.Encode(groups))
	if err := sess.Run(ctx, s.fetcher, tasks, s.opts.Concurrency); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, err, "comparison did not finish")
	}
	return sess.Ranking(), nil
}

func (s *Server) groupsOrDefault(groups []query.Group) []query.Group {
	if len(groups) == 0 {
		return query.Parse(s.opts.DefaultQuery)
	}
	return groups
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, groups []query.Group) {
	http.Redirect(w, r, "/?"+query.QueryString(groups), http.StatusFound)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: apperrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatSVG:
		return "image/svg+xml"
	case report.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
