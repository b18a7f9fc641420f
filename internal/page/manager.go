// Package page assembles a results page: ordered message tabs, the attached
// code tabs, and the score status.
package page

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"strconv"

	"github.com/izzyreal/owltest/internal/coderender"
	"github.com/izzyreal/owltest/internal/highlight"
	"github.com/izzyreal/owltest/internal/protocol"
	"github.com/izzyreal/owltest/internal/tabhost"
	"github.com/izzyreal/owltest/internal/tabs"
)

const (
	StudentCodeID = "student-code"
	TestCodeID    = "test-code"

	studentCodeLabel = "Your code"
	testCodeLabel    = "Test code"
)

type Options struct {
	Priority   []string
	FlatIDs    []string
	TabSize    int
	Mode       string
	StudentURL string
	Tokenizer  coderender.Tokenizer
}

func (o Options) withDefaults() Options {
	if o.Priority == nil {
		o.Priority = tabs.DefaultPriority
	}
	if o.FlatIDs == nil {
		o.FlatIDs = tabs.DefaultFlatIDs
	}
	if o.TabSize <= 0 {
		o.TabSize = coderender.DefaultTabSize
	}
	if o.Mode == "" {
		o.Mode = highlight.DefaultMode
	}
	if o.Tokenizer == nil {
		o.Tokenizer = highlight.New()
	}
	return o
}

// Manager builds one page. It is not shared between requests.
type Manager struct {
	opts   Options
	host   *tabhost.Host
	status *Status
	groups *tabs.Renderer
	code   *coderender.Renderer

	// codeTabs maps code panels to the callback that re-renders them.
	codeTabs map[tabhost.PanelHandle]func() error
}

func NewManager(opts Options) *Manager {
	opts = opts.withDefaults()
	m := &Manager{
		opts:     opts,
		host:     tabhost.New("tabs"),
		status:   &Status{},
		groups:   tabs.NewRenderer(opts.FlatIDs),
		code:     coderender.New(opts.TabSize),
		codeTabs: make(map[tabhost.PanelHandle]func() error),
	}
	m.host.OnPanelActivated(m.refreshCodeTab)
	return m
}

func (m *Manager) Host() *tabhost.Host { return m.host }

func (m *Manager) Status() *Status { return m.status }

// IsCodeTab reports whether handle has a refresh callback.
func (m *Manager) IsCodeTab(handle tabhost.PanelHandle) bool {
	_, ok := m.codeTabs[handle]
	return ok
}

// MakeTabs adds the message tabs, the student and test code tabs, and the
// score status for rs, then shows the tabs with the first one active.
func (m *Manager) MakeTabs(rs protocol.ResultSet) error {
	if rs.ErrorMessage != "" {
		m.status.Set(rs.ErrorMessage)
	}
	if err := m.addMessageTabs(rs.Tabs); err != nil {
		return err
	}
	if rs.StudentFilename != "" {
		if err := m.addCodeTab(StudentCodeID, studentCodeLabel, rs.StudentFilename, m.opts.StudentURL, rs.StudentCode); err != nil {
			return err
		}
	}
	if rs.TestCode != "" && rs.TestFilename != "" {
		if err := m.addCodeTab(TestCodeID, testCodeLabel, rs.TestFilename, "", rs.TestCode); err != nil {
			return err
		}
	}
	m.status.Set(FormatScore(rs))
	if len(m.host.Panels()) > 0 {
		m.host.Show(0)
	}
	return nil
}

func (m *Manager) addMessageTabs(t *protocol.Tabs) error {
	for _, id := range tabs.Order(t.IDs(), m.opts.Priority) {
		group, _ := t.Get(id)
		body, err := m.groups.RenderGroup(id, group)
		if err != nil {
			return err
		}
		m.host.AddPanel(id, group.Label, body)
	}
	return nil
}

var codeTabTemplate = template.Must(template.New("code").Parse(
	`<p>Filename: {{if .URL}}<a target="_blank" href="{{.URL}}">{{.Name}}</a>{{else}}{{.Name}}{{end}}</p>{{.Code}}`))

func (m *Manager) renderCodeTab(filename, url, source string) (template.HTML, error) {
	source = coderender.NormalizeNewlines(source)
	toks, err := m.opts.Tokenizer.Tokenize(source, m.opts.Mode)
	if err != nil {
		return "", fmt.Errorf("tokenize %s: %w", filename, err)
	}
	out, err := m.code.RenderSource(source, toks)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", filename, err)
	}
	var buf bytes.Buffer
	err = codeTabTemplate.Execute(&buf, struct {
		Name string
		URL  string
		Code template.HTML
	}{Name: filename, URL: url, Code: out.HTML()})
	if err != nil {
		return "", fmt.Errorf("render %s: %w", filename, err)
	}
	return template.HTML(buf.String()), nil
}

// codeTabID returns base, or base with a numeric suffix when a result group
// already uses that id. Code tabs never replace a message tab.
func (m *Manager) codeTabID(base string) string {
	used := make(map[string]bool)
	for _, p := range m.host.Panels() {
		used[p.ID] = true
	}
	id := base
	for n := 2; used[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

func (m *Manager) addCodeTab(id, label, filename, url, source string) error {
	body, err := m.renderCodeTab(filename, url, source)
	if err != nil {
		return err
	}
	handle := m.host.AddPanel(m.codeTabID(id), label, body)
	m.codeTabs[handle] = func() error {
		body, err := m.renderCodeTab(filename, url, source)
		if err != nil {
			return err
		}
		m.host.SetContent(handle, body)
		return nil
	}
	return nil
}

// Activate selects a panel. Activating a code panel re-renders its listing.
func (m *Manager) Activate(handle tabhost.PanelHandle) error {
	return m.host.Activate(handle)
}

func (m *Manager) refreshCodeTab(handle tabhost.PanelHandle) {
	refresh, ok := m.codeTabs[handle]
	if !ok {
		return
	}
	if err := refresh(); err != nil {
		slog.Warn("refresh code tab failed", "panel", string(handle), "error", err)
	}
}
