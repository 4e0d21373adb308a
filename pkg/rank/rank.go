// Package rank sums package sizes per group and orders groups by gzip size.
package rank

import (
	"cmp"
	"slices"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/query"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/size"
)

// Entry pairs a group with its summed size.
type Entry struct {
	Group query.Group   `json:"group"`
	Size  size.Resolved `json:"size"`
}

// Label returns the group label, e.g. "react+react-dom".
func (e Entry) Label() string { return e.Group.String() }

// Resolver looks up the resolved size of one package.
type Resolver func(name string) (size.Resolved, bool)

// Sum adds up the sizes of every member of g. It reports false as soon as
// one member is unresolved; partial totals are never returned.
func Sum(g query.Group, resolve Resolver) (size.Resolved, bool) {
	var total size.Resolved
	for _, name := range g {
		s, ok := resolve(name)
		if !ok {
			return size.Resolved{}, false
		}
		total = total.Add(s)
	}
	return total, true
}

// Aggregate returns the fully resolved groups sorted ascending by gzip size.
// Groups with equal gzip size keep their input order.
func Aggregate(groups []query.Group, resolve Resolver) []Entry {
	entries := make([]Entry, 0, len(groups))
	for _, g := range groups {
		if total, ok := Sum(g, resolve); ok {
			entries = append(entries, Entry{Group: g, Size: total})
		}
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Size.Gzip, b.Size.Gzip)
	})
	return entries
}
