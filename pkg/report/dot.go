package report

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/rank"
)

// ToDOT converts a ranking to Graphviz DOT source. Each group becomes a
// node labelled with its rank and sizes, linked to one node per member
// package; packages shared by several groups appear once.
func ToDOT(entries []rank.Entry) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	seen := make(map[string]bool)
	for i, e := range entries {
		label := fmt.Sprintf("%d. %s\n%s min\n%s gzip", i+1, e.Label(), FormatBytes(e.Size.Min), FormatBytes(e.Size.Gzip))
		attrs := fmt.Sprintf("label=%q", label)
		if i == 0 {
			attrs += ", fillcolor=\"#d9f2e4\""
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", groupID(i), attrs)

		for _, name := range e.Group {
			if !seen[name] {
				seen[name] = true
				fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, style=filled, fillcolor=\"#f2f2f2\"];\n", packageID(name), name)
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", groupID(i), packageID(name))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func groupID(i int) string         { return "group:" + strconv.Itoa(i) }
func packageID(name string) string { return "pkg:" + name }

// RenderSVG renders DOT source to SVG in-process.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales with its
// container: origin at zero, width and height equal to the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
