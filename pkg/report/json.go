package report

import (
	"encoding/json"
	"io"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/query"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/rank"
)

// Row is the JSON shape of one ranked group.
type Row struct {
	Group query.Group `json:"group"`
	Label string      `json:"label"`
	Min   int64       `json:"min"`
	Gzip  int64       `json:"gzip"`
}

// JSONRows converts entries to their JSON shape. The result is never nil.
func JSONRows(entries []rank.Entry) []Row {
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Group: e.Group, Label: e.Label(), Min: e.Size.Min, Gzip: e.Size.Gzip}
	}
	return rows
}

// WriteJSON writes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []rank.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(JSONRows(entries))
}
