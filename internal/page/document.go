package page

import (
	"fmt"
	"html/template"
	"io"
)

const pageCSS = `
    body { font-family: system-ui, sans-serif; margin: 24px; color: #1f2933; }
    h1 { margin: 0 0 12px; font-size: 24px; }
    #status { margin: 0 0 16px; font-weight: 600; }
    .tabs-nav { list-style: none; display: flex; gap: 4px; padding: 0; margin: 0; border-bottom: 1px solid #d0d7de; }
    .tabs-nav li a { display: block; padding: 6px 12px; text-decoration: none; color: #57606a; }
    .tabs-nav li.active a { color: #1f2933; border-bottom: 2px solid #0969da; }
    .tab-panel { padding: 12px 0; }
    pre.code { font-family: ui-monospace, monospace; font-size: 13px; line-height: 1.4; background: #f6f8fa; padding: 8px; }
    .cm-keyword { color: #708; }
    .cm-atom { color: #219; }
    .cm-number { color: #164; }
    .cm-def { color: #00f; }
    .cm-variable-2 { color: #05a; }
    .cm-builtin { color: #30a; }
    .cm-string { color: #a11; }
    .cm-string-2 { color: #f50; }
    .cm-comment { color: #a50; }
    .cm-meta { color: #555; }
    .cm-operator { color: #333; }
    .cm-error { color: #f00; }
`

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="status">{{.Status}}</div>
{{.Tabs}}
</body>
</html>
`))

// Render writes the complete HTML document for the page.
func (m *Manager) Render(w io.Writer, title string) error {
	tabsHTML, err := m.host.HTML()
	if err != nil {
		return err
	}
	err = documentTemplate.Execute(w, struct {
		Title  string
		CSS    template.CSS
		Status template.HTML
		Tabs   template.HTML
	}{Title: title, CSS: template.CSS(pageCSS), Status: m.status.HTML(), Tabs: tabsHTML})
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
