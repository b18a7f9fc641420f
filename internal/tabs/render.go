package tabs

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/izzyreal/owltest/internal/protocol"
)

// DefaultFlatIDs are free-form commentary groups: rendered as paragraphs, never
// numbered and never annotated with points.
var DefaultFlatIDs = []string{"Comments", "Notes", "Feedback", "Submitted_File"}

var groupTemplates = template.Must(template.New("groups").Funcs(template.FuncMap{
	"pointsPrefix": PointsPrefix,
}).Parse(`
{{- define "flat"}}{{range .}}<p style="white-space:pre-wrap">{{.Text}}</p>{{end}}{{end -}}
{{- define "list"}}<ol>{{range .}}<li style="white-space:pre-wrap">{{pointsPrefix .Points}}{{.Text}}</li>{{end}}</ol>{{end -}}
`))

// PointsPrefix formats the list-item annotation for a message worth pts.
func PointsPrefix(pts *float64) string {
	if pts == nil {
		return ""
	}
	return fmt.Sprintf("[%.1f pts] ", *pts)
}

// Renderer renders tab groups under a fixed flat-id policy.
type Renderer struct {
	flat map[string]struct{}
}

func NewRenderer(flatIDs []string) *Renderer {
	r := &Renderer{flat: make(map[string]struct{}, len(flatIDs))}
	for _, id := range flatIDs {
		r.flat[id] = struct{}{}
	}
	return r
}

func (r *Renderer) IsFlat(id string) bool {
	_, ok := r.flat[id]
	return ok
}

// RenderGroup returns the panel body for one group. Message text is escaped
// and shown whitespace-preserving.
func (r *Renderer) RenderGroup(id string, group protocol.TabGroup) (template.HTML, error) {
	name := "list"
	if r.IsFlat(id) {
		name = "flat"
	}
	var buf bytes.Buffer
	if err := groupTemplates.ExecuteTemplate(&buf, name, group.Messages); err != nil {
		return "", fmt.Errorf("render tab %q: %w", id, err)
	}
	return template.HTML(buf.String()), nil
}
