// Package report renders rankings for people and programs.
//
// # Formats
//
//   - [FormatTable]: a bordered terminal table built with lipgloss, the
//     counterpart of the comparison table on the web page
//   - [FormatJSON]: an array of {group, label, min, gzip} objects
//   - [FormatDOT]: Graphviz source linking each group to its packages
//   - [FormatSVG]: the DOT diagram rendered in-process with go-graphviz
//
// [Write] dispatches on a [Format]; [ParseFormat] validates user input.
//
// # Sizes
//
// [FormatBytes] prints byte counts with SI units ("2.6 kB") using
// github.com/dustin/go-humanize.
package report
