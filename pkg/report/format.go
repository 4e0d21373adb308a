package report

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	apperrors "github.com/jamiebuilds/bundlephobia-compare/pkg/errors"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/rank"
)

// Format selects an output representation.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatDOT   Format = "dot"
	FormatSVG   Format = "svg"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatTable, FormatJSON, FormatDOT, FormatSVG}

// ParseFormat validates s. The empty string selects [FormatTable].
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %s (must be one of %s)", s, formatList())
	}
	return f, nil
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Write renders entries to w in format f.
func Write(ctx context.Context, w io.Writer, f Format, entries []rank.Entry) error {
	switch f {
	case FormatTable, "":
		_, err := fmt.Fprintln(w, Table(entries))
		return err
	case FormatJSON:
		return WriteJSON(w, entries)
	case FormatDOT:
		_, err := io.WriteString(w, ToDOT(entries))
		return err
	case FormatSVG:
		svg, err := RenderSVG(ctx, ToDOT(entries))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format: %s", f)
	}
}
