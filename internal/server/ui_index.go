package server

import "html/template"

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"deref": func(v *float64) float64 { return *v },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>OwlTest</title>
<style>
    body { font-family: system-ui, sans-serif; margin: 24px; color: #1f2933; }
    h1 { margin: 0 0 12px; font-size: 24px; }
    #status { margin: 0 0 16px; font-weight: 600; }
    table { border-collapse: collapse; margin-top: 16px; }
    td, th { padding: 4px 12px; border-bottom: 1px solid #d0d7de; text-align: left; }
</style>
</head>
<body>
<h1>OwlTest</h1>
<div id="status">{{.Status}}</div>
<form method="post" action="/submit" enctype="multipart/form-data">
<label>Name <input type="text" name="submitter" value="{{.Submitter}}"></label>
<span><input type="file" name="student_file" accept=".py"></span>
<button type="submit">Submit</button>
</form>
<table>
<tr><th>Result</th><th>File</th><th>Status</th><th>Score</th></tr>
{{- range .Results}}
<tr><td><a href="/results/{{.ID}}">{{.ID}}</a></td><td>{{.StudentFilename}}</td><td>{{.Status}}</td><td>{{if .Score}}{{printf "%.1f" (deref .Score)}}{{end}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))
