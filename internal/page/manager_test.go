package page

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/izzyreal/owltest/internal/coderender"
	"github.com/izzyreal/owltest/internal/highlight"
	"github.com/izzyreal/owltest/internal/protocol"
	"github.com/izzyreal/owltest/internal/tabhost"
)

type countingTokenizer struct {
	calls int
}

func (c *countingTokenizer) Tokenize(text, mode string) ([]coderender.Token, error) {
	c.calls++
	return highlight.Plain(text), nil
}

const sampleResult = `{
  "score": 8,
  "max_score": 10,
  "tabs": {
    "Warning_1": {"label": "Warnings", "msg_dicts": [{"msg": "unused variable"}]},
    "Comments": {"label": "Comments", "msg_dicts": [{"msg": "Nice work", "pts": 1}]},
    "Error_1": {"label": "Errors", "msg_dicts": [{"msg": "bad <input>", "pts": 2.5}]}
  },
  "student_filename": "mancala.py",
  "student_code": "def f():\n\treturn 1\n",
  "test_filename": "test_mancala.py",
  "test_code": "import mancala\n"
}`

func decodeResult(t *testing.T, raw string) protocol.ResultSet {
	t.Helper()
	var rs protocol.ResultSet
	if err := json.Unmarshal([]byte(raw), &rs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rs
}

func panelIDs(h *tabhost.Host) []string {
	var out []string
	for _, p := range h.Panels() {
		out = append(out, p.ID)
	}
	return out
}

func TestMakeTabsOrdersAndAddsCodeTabs(t *testing.T) {
	tok := &countingTokenizer{}
	m := NewManager(Options{Tokenizer: tok, StudentURL: "https://example.test/mancala"})
	if err := m.MakeTabs(decodeResult(t, sampleResult)); err != nil {
		t.Fatalf("MakeTabs: %v", err)
	}

	got := strings.Join(panelIDs(m.Host()), ",")
	if got != "Error_1,Warning_1,Comments,student-code,test-code" {
		t.Fatalf("panel order: %s", got)
	}
	if !m.Host().Visible() {
		t.Fatal("tabs should be shown once populated")
	}
	if p, _ := m.Host().Active(); p.ID != "Error_1" {
		t.Fatalf("first tab should be active, got %q", p.ID)
	}

	panels := m.Host().Panels()
	if !strings.Contains(string(panels[0].Content), "<li style=\"white-space:pre-wrap\">[2.5 pts] bad &lt;input&gt;</li>") {
		t.Fatalf("error tab body: %s", panels[0].Content)
	}
	if strings.Contains(string(panels[2].Content), "pts") {
		t.Fatalf("flat tab must not show points: %s", panels[2].Content)
	}
	student := string(panels[3].Content)
	if !strings.Contains(student, `<a target="_blank" href="https://example.test/mancala">mancala.py</a>`) {
		t.Fatalf("student link missing: %s", student)
	}
	if !strings.Contains(student, "2     return 1") {
		t.Fatalf("student code not tab-expanded: %s", student)
	}
	if strings.Contains(string(panels[4].Content), "<a ") {
		t.Fatalf("test code filename should not be linked: %s", panels[4].Content)
	}
	if tok.calls != 2 {
		t.Fatalf("tokenizer calls: %d", tok.calls)
	}
	if got := m.Status().Text(); got != "Score: 8.0/10" {
		t.Fatalf("status: %q", got)
	}
}

func TestActivateRefreshesCodeTabsOnly(t *testing.T) {
	tok := &countingTokenizer{}
	m := NewManager(Options{Tokenizer: tok})
	if err := m.MakeTabs(decodeResult(t, sampleResult)); err != nil {
		t.Fatalf("MakeTabs: %v", err)
	}
	before := tok.calls

	if err := m.Activate(tabhost.HandleFor("Error_1")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if tok.calls != before {
		t.Fatal("message tab activation must not re-render code")
	}
	handle := tabhost.HandleFor(StudentCodeID)
	if !m.IsCodeTab(handle) {
		t.Fatal("student code tab should have a refresh callback")
	}
	if err := m.Activate(handle); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if tok.calls != before+1 {
		t.Fatalf("code tab activation should refresh once, calls %d -> %d", before, tok.calls)
	}
	if p, _ := m.Host().Active(); p.ID != StudentCodeID {
		t.Fatalf("active: %q", p.ID)
	}
}

func TestMakeTabsTestCodeNeedsFilename(t *testing.T) {
	rs := protocol.ResultSet{
		StudentFilename: "a.py",
		StudentCode:     "x = 1",
		TestCode:        "assert True",
	}
	m := NewManager(Options{})
	if err := m.MakeTabs(rs); err != nil {
		t.Fatalf("MakeTabs: %v", err)
	}
	if got := strings.Join(panelIDs(m.Host()), ","); got != "student-code" {
		t.Fatalf("panels: %s", got)
	}
	if !strings.Contains(string(m.Host().Panels()[0].Content), "<p>Filename: a.py</p>") {
		t.Fatalf("unlinked filename expected: %s", m.Host().Panels()[0].Content)
	}
}

func TestMakeTabsKeepsResultGroupsNamedLikeCodeTabs(t *testing.T) {
	rs := decodeResult(t, `{
  "tabs": {"student-code": {"label": "Msgs", "msg_dicts": [{"msg": "hello"}]}},
  "student_filename": "a.py",
  "student_code": "x = 1\n",
  "test_filename": "test_a.py",
  "test_code": "import a\n"
}`)
	m := NewManager(Options{})
	if err := m.MakeTabs(rs); err != nil {
		t.Fatalf("MakeTabs: %v", err)
	}
	if got := strings.Join(panelIDs(m.Host()), ","); got != "student-code,student-code-2,test-code" {
		t.Fatalf("panels: %s", got)
	}
	panels := m.Host().Panels()
	if panels[0].Label != "Msgs" || !strings.Contains(string(panels[0].Content), "hello") {
		t.Fatalf("result group replaced: %+v", panels[0])
	}
	if panels[1].Label != "Your code" || !m.IsCodeTab(panels[1].Handle) {
		t.Fatalf("student code tab: %+v", panels[1])
	}
	if m.IsCodeTab(panels[0].Handle) {
		t.Fatal("result group must not get a code refresh callback")
	}
}

func TestMakeTabsErrorWithoutTabs(t *testing.T) {
	rs := decodeResult(t, `{"error_msg": "SyntaxError: invalid syntax (line 3)"}`)
	m := NewManager(Options{})
	if err := m.MakeTabs(rs); err != nil {
		t.Fatalf("MakeTabs: %v", err)
	}
	if len(m.Host().Panels()) != 0 {
		t.Fatal("no tabs expected")
	}
	if m.Host().Visible() {
		t.Fatal("empty host stays hidden")
	}
	if got := m.Status().Text(); got != "SyntaxError: invalid syntax (line 3)" {
		t.Fatalf("status: %q", got)
	}
}

func TestRenderDocument(t *testing.T) {
	m := NewManager(Options{})
	if err := m.MakeTabs(decodeResult(t, sampleResult)); err != nil {
		t.Fatalf("MakeTabs: %v", err)
	}
	m.Status().AppendWarning("Already submitted, please wait...")
	var buf bytes.Buffer
	if err := m.Render(&buf, "Results <mancala>"); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<title>Results &lt;mancala&gt;</title>",
		`<div id="status">Score: 8.0/10  <span style="color:red">Already submitted, please wait...</span></div>`,
		`<div id="tabs-Error_1" class="tab-panel">`,
		".cm-keyword",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in document:\n%s", want, out)
		}
	}
}
