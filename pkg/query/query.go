// Package query parses comparison queries into package groups.
//
// # Overview
//
// A query is free text such as "react+react-dom, preact inferno". Tokens are
// separated by runs of spaces and/or commas; each token is one [Group], and
// the packages inside a group are joined with "+". Packages in a group are
// meant to be installed together, so their sizes are summed.
//
//	groups := query.Parse("react+react-dom,preact")
//	// [[react react-dom] [preact]]
//
// # Normalization
//
// [Parse] drops empty tokens and deduplicates tokens by their exact text,
// keeping the first occurrence. [Format] renders groups in the form shown in
// an input box ("a+b, c") and [Encode] in the form used by the pkgs URL
// parameter ("a+b,c"). Both re-parse to the same group list.
//
// Empty "+" segments are kept as empty package names: "a+" parses to
// ["a", ""]. Such names never resolve to size data, which excludes the
// group from rankings.
package query

import (
	"regexp"
	"slices"
	"strings"
)

// DefaultQuery is used when no query is supplied.
const DefaultQuery = "react+react-dom,preact,inferno"

var separators = regexp.MustCompile(`[ ,]+`)

// Group is an ordered list of package names installed together.
type Group []string

// String returns the group label, members joined with "+".
func (g Group) String() string { return strings.Join(g, "+") }

// Parse splits input into deduplicated groups in first-seen order.
// It never fails; input made only of separators yields nil.
func Parse(input string) []Group {
	var groups []Group
	seen := make(map[string]bool)
	for _, token := range separators.Split(input, -1) {
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		groups = append(groups, Group(strings.Split(token, "+")))
	}
	return groups
}

// Format renders groups the way they are shown for editing: "a+b, c".
func Format(groups []Group) string {
	return join(groups, ", ")
}

// Encode renders groups for the pkgs URL parameter: "a+b,c".
func Encode(groups []Group) string {
	return join(groups, ",")
}

func join(groups []Group, sep string) string {
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.String()
	}
	return strings.Join(labels, sep)
}

// Names returns every distinct package name across groups in first-seen order.
func Names(groups []Group) []string {
	var names []string
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, name := range g {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Equal reports whether a and b contain the same groups in the same order.
func Equal(a, b []Group) bool {
	return slices.EqualFunc(a, b, func(x, y Group) bool {
		return slices.Equal(x, y)
	})
}
