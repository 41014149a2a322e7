package web

import (
	"html/template"

	"tableflip.dev/jview/pkg/tree"
)

var templateFuncs = template.FuncMap{
	"branch": func(k tree.RowKind) bool { return k == tree.RowBranch },
}

const pageTemplates = `
{{define "style"}}<style>
body { font-family: ui-monospace, Menlo, Consolas, monospace; margin: 1.5em; }
.rows { line-height: 1.5; }
.row { padding-left: calc(var(--depth) * 1.5em); white-space: pre; }
.row a { text-decoration: none; color: #888; }
.toolbar a { margin-right: 1em; }
.label { color: #3465a4; }
.string { color: #4e9a06; }
.number { color: #ce5c00; }
.boolean { color: #75507b; }
.null, .comment { color: #888; font-style: italic; }
.summary { color: #888; }
.tag { color: #204a87; }
.cdata { color: #8f5902; }
.error { color: #a40000; font-weight: bold; }
</style>{{end}}

{{define "viewer"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Kind}} viewer</title>
  {{template "style"}}
</head>
<body>
  <h1>{{.Kind}} viewer</h1>
  {{if .Error}}
  <p class="error">{{.Error}}</p>
  {{else}}
  <p class="toolbar">
    <a href="{{.ExpandAll}}">Expand all</a>
    <a href="{{.CollapseAll}}">Collapse all</a>
    <a href="{{.Pretty}}">Pretty</a>
    <a href="{{.Minified}}">Minified</a>
  </p>
  <div class="rows">
  {{range .Rows}}<div class="row" id="{{.Path}}" style="--depth: {{.Depth}}">{{if branch .Kind}}<a href="{{.Href}}">{{.Marker}}</a>{{else}}{{.Marker}}{{end}}{{if .Labeled}}<span class="label">{{.Label}}</span>: {{end}}<span class="{{.Class}}">{{.Value}}</span></div>
  {{end}}
  </div>
  {{end}}
</body>
</html>{{end}}

{{define "index"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>jview records</title>
  {{template "style"}}
</head>
<body>
  <h1>Records</h1>
  {{if .}}<ul>
  {{range .}}<li><a href="{{.Href}}">{{.Key}}</a> <span class="summary">{{.Kind}}</span></li>
  {{end}}</ul>{{else}}<p class="summary">No records yet.</p>{{end}}
</body>
</html>{{end}}
`
