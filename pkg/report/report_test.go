package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	apperrors "github.com/jamiebuilds/bundlephobia-compare/pkg/errors"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/query"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/rank"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/size"
)

func sampleEntries() []rank.Entry {
	return []rank.Entry{
		{Group: query.Group{"preact"}, Size: size.Resolved{Min: 10_000, Gzip: 4_000}},
		{Group: query.Group{"react", "react-dom"}, Size: size.Resolved{Min: 130_000, Gzip: 42_000}},
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{2581, "2.6 kB"},
		{45_000, "45 kB"},
		{1_000_000, "1.0 MB"},
		{-5, "-5 B"},
		{-2581, "-2.6 kB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" dot ", FormatDOT, false},
		{"svg", FormatSVG, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) code = %q, want INVALID_FORMAT", tt.in, apperrors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleEntries())
	if len(rows) != 2 {
		t.Fatalf("len(Rows()) = %d, want 2", len(rows))
	}
	want := []string{"react+react-dom", "130 kB", "42 kB"}
	for i, cell := range rows[1] {
		if cell != want[i] {
			t.Errorf("Rows()[1][%d] = %q, want %q", i, cell, want[i])
		}
	}
}

func TestTable(t *testing.T) {
	out := Table(sampleEntries())
	for _, want := range append(Headers, "preact", "react+react-dom", "4.0 kB", "42 kB") {
		if !strings.Contains(out, want) {
			t.Errorf("Table() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "preact") > strings.Index(out, "react+react-dom") {
		t.Error("Table() should keep rank order")
	}
}

func TestTableEmpty(t *testing.T) {
	out := Table(nil)
	if !strings.Contains(out, "Package(s)") {
		t.Errorf("empty Table() should still render headers:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleEntries()); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[1].Label != "react+react-dom" || rows[1].Gzip != 42_000 || len(rows[1].Group) != 2 {
		t.Errorf("rows[1] = %+v", rows[1])
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("WriteJSON(nil) = %q, want []", got)
	}
}

func TestToDOT(t *testing.T) {
	entries := []rank.Entry{
		{Group: query.Group{"a"}, Size: size.Resolved{Min: 10, Gzip: 5}},
		{Group: query.Group{"a", "b"}, Size: size.Resolved{Min: 30, Gzip: 20}},
	}
	dot := ToDOT(entries)

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("ToDOT() should start with digraph:\n%s", dot)
	}
	for _, want := range []string{
		`"group:0" -> "pkg:a";`,
		`"group:1" -> "pkg:a";`,
		`"group:1" -> "pkg:b";`,
		`1. a`,
		`2. a+b`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, `"pkg:a" [label=`); n != 1 {
		t.Errorf("shared package declared %d times, want 1", n)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(normalizeViewBox([]byte(tt.svg))); got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleEntries()))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestWrite(t *testing.T) {
	for _, f := range []Format{FormatTable, FormatJSON, FormatDOT} {
		var buf bytes.Buffer
		if err := Write(context.Background(), &buf, f, sampleEntries()); err != nil {
			t.Errorf("Write(%s) error: %v", f, err)
		}
		if !strings.Contains(buf.String(), "preact") {
			t.Errorf("Write(%s) output missing entry:\n%s", f, buf.String())
		}
	}

	if err := Write(context.Background(), &bytes.Buffer{}, "pdf", nil); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("Write(pdf) error = %v, want INVALID_FORMAT", err)
	}
}
