// Package tabhost is a server-side tab container: labeled panels, an active
// index, visibility, and activation notifications.
package tabhost

import (
	"bytes"
	"fmt"
	"html/template"
)

// PanelHandle identifies a materialized panel. It is a key only; panels are
// never removed through it.
type PanelHandle string

const handlePrefix = "tabs-"

func HandleFor(id string) PanelHandle {
	return PanelHandle(handlePrefix + id)
}

type Panel struct {
	Handle  PanelHandle
	ID      string
	Label   string
	Content template.HTML
}

type Host struct {
	elementID string
	panels    []Panel
	index     map[PanelHandle]int
	active    int
	visible   bool
	handlers  []func(PanelHandle)
}

// New returns a hidden, empty host rendered under the given element id.
func New(elementID string) *Host {
	return &Host{elementID: elementID, index: make(map[PanelHandle]int)}
}

// AddPanel appends a panel. Re-adding an id replaces its label and content in
// place and returns the same handle.
func (h *Host) AddPanel(id, label string, content template.HTML) PanelHandle {
	handle := HandleFor(id)
	p := Panel{Handle: handle, ID: id, Label: label, Content: content}
	if i, ok := h.index[handle]; ok {
		h.panels[i] = p
		return handle
	}
	h.index[handle] = len(h.panels)
	h.panels = append(h.panels, p)
	return handle
}

// SetContent swaps a panel body, as a refresh does.
func (h *Host) SetContent(handle PanelHandle, content template.HTML) bool {
	i, ok := h.index[handle]
	if !ok {
		return false
	}
	h.panels[i].Content = content
	return true
}

func (h *Host) OnPanelActivated(handler func(PanelHandle)) {
	if handler != nil {
		h.handlers = append(h.handlers, handler)
	}
}

// Show makes the host visible with the panel at activeIndex selected.
// Out-of-range indexes select the first panel.
func (h *Host) Show(activeIndex int) {
	if activeIndex < 0 || activeIndex >= len(h.panels) {
		activeIndex = 0
	}
	h.active = activeIndex
	h.visible = true
}

func (h *Host) Hide() {
	h.visible = false
}

// Activate selects the panel and notifies activation handlers.
func (h *Host) Activate(handle PanelHandle) error {
	i, ok := h.index[handle]
	if !ok {
		return fmt.Errorf("unknown panel %q", handle)
	}
	h.active = i
	for _, fn := range h.handlers {
		fn(handle)
	}
	return nil
}

func (h *Host) Visible() bool { return h.visible }

func (h *Host) Panels() []Panel {
	return append([]Panel(nil), h.panels...)
}

func (h *Host) Active() (Panel, bool) {
	if h.active < 0 || h.active >= len(h.panels) {
		return Panel{}, false
	}
	return h.panels[h.active], true
}

var hostTemplate = template.Must(template.New("host").Parse(`<div id="{{.ID}}" class="tabs"{{if not .Visible}} hidden{{end}}>
<ul class="tabs-nav">
{{- range $i, $p := .Panels}}
<li{{if eq $i $.Active}} class="active"{{end}}><a href="?tab={{$p.Handle}}#{{$p.Handle}}">{{$p.Label}}</a></li>
{{- end}}
</ul>
{{- range $i, $p := .Panels}}
<div id="{{$p.Handle}}" class="tab-panel"{{if ne $i $.Active}} hidden{{end}}><div>{{$p.Content}}</div></div>
{{- end}}
</div>`))

// HTML renders the tab strip and every panel; only the active panel is
// visible.
func (h *Host) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	err := hostTemplate.Execute(&buf, struct {
		ID      string
		Visible bool
		Active  int
		Panels  []Panel
	}{ID: h.elementID, Visible: h.visible, Active: h.active, Panels: h.panels})
	if err != nil {
		return "", fmt.Errorf("render tabs: %w", err)
	}
	return template.HTML(buf.String()), nil
}
