package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ResultSet is the report for one test run, in the wire shape test runners
// already emit (score, tabs of message dicts, attached code).
type ResultSet struct {
	Score           *float64 `json:"score,omitempty"`
	MaxScore        *float64 `json:"max_score,omitempty"`
	ScoreComment    *string  `json:"score_comment,omitempty"`
	ErrorMessage    string   `json:"error_msg,omitempty"`
	Tabs            *Tabs    `json:"tabs,omitempty"`
	StudentFilename string   `json:"student_filename,omitempty"`
	StudentCode     string   `json:"student_code,omitempty"`
	TestFilename    string   `json:"test_filename,omitempty"`
	TestCode        string   `json:"test_code,omitempty"`
}

type TabGroup struct {
	Label    string    `json:"label"`
	Messages []Message `json:"msg_dicts"`
}

type Message struct {
	Text   string   `json:"msg"`
	Points *float64 `json:"pts,omitempty"`
}

// Tabs maps tab ids to groups and remembers the order ids were added or
// decoded in. That order is the "input order" the tab orderer preserves for
// ids that match no priority term.
type Tabs struct {
	order  []string
	groups map[string]TabGroup
}

func NewTabs() *Tabs {
	return &Tabs{groups: make(map[string]TabGroup)}
}

// Set adds or replaces a group. Replacing keeps the original position.
func (t *Tabs) Set(id string, group TabGroup) {
	if t.groups == nil {
		t.groups = make(map[string]TabGroup)
	}
	if _, exists := t.groups[id]; !exists {
		t.order = append(t.order, id)
	}
	t.groups[id] = group
}

func (t *Tabs) Get(id string) (TabGroup, bool) {
	if t == nil {
		return TabGroup{}, false
	}
	g, ok := t.groups[id]
	return g, ok
}

func (t *Tabs) IDs() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

func (t *Tabs) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

func (t *Tabs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t.groups[id])
		if err != nil {
			return nil, fmt.Errorf("marshal tab %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *Tabs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tabs: expected object, got %v", tok)
	}
	out := Tabs{groups: make(map[string]TabGroup)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("tabs: expected string key, got %v", tok)
		}
		var group TabGroup
		if err := dec.Decode(&group); err != nil {
			return fmt.Errorf("tabs: decode %q: %w", id, err)
		}
		out.Set(id, group)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

func Float(v float64) *float64 { return &v }

func String(v string) *string { return &v }
