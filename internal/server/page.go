package server

import (
	"html/template"
	"io"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/rank"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/report"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"bytes": report.FormatBytes,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Bundlephobia Compare</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
form { display: flex; gap: .5rem; margin-bottom: 1.5rem; }
input[type=text] { flex: 1; font-size: 1rem; padding: .5rem; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: left; padding: .5rem; border-bottom: 1px solid #ddd; }
td.size, th.size { text-align: right; font-variant-numeric: tabular-nums; }
tr:first-child td { color: #1a7f46; }
.share { margin-top: 1rem; color: #666; font-size: .875rem; }
</style>
</head>
<body>
<h1>Bundlephobia Compare</h1>
<form method="get" action="/">
<input type="text" name="q" value="{{.Input}}" aria-label="Packages" autofocus>
<button type="submit">Compare</button>
</form>
<table>
<thead><tr><th>Package(s)</th><th class="size">Size (min)</th><th class="size">Size (min+gzip)</th></tr></thead>
<tbody>
{{- range .Entries}}
<tr><td>{{.Label}}</td><td class="size">{{bytes .Size.Min}}</td><td class="size">{{bytes .Size.Gzip}}</td></tr>
{{- end}}
</tbody>
</table>
<p class="share"><a href="/?{{.Share}}">?{{.Share}}</a></p>
</body>
</html>
`))

type pageData struct {
	Input   string
	Entries []rank.Entry
	Share   template.URL
}

func renderPage(w io.Writer, data pageData) error {
	return pageTemplate.Execute(w, data)
}
