package protocol

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const sampleResultJSON = `{
  "score": 8,
  "max_score": 10,
  "score_comment": "late penalty applied",
  "student_filename": "solitaire.py",
  "student_code": "def f():\n\treturn 1\n",
  "tabs": {
    "Warning_1": {"label": "Warnings", "msg_dicts": [{"msg": "unused variable"}]},
    "Comments": {"label": "Comments", "msg_dicts": [{"msg": "nice work", "pts": 1}]},
    "Error_1": {"label": "Errors", "msg_dicts": [{"msg": "wrong answer", "pts": 2.5}]}
  }
}`

func TestResultSetDecodeKeepsTabOrder(t *testing.T) {
	var rs ResultSet
	if err := json.Unmarshal([]byte(sampleResultJSON), &rs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"Warning_1", "Comments", "Error_1"}
	if got := rs.Tabs.IDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tab order: got %v want %v", got, want)
	}
	if rs.Score == nil || *rs.Score != 8 || rs.MaxScore == nil || *rs.MaxScore != 10 {
		t.Fatalf("unexpected score fields: %+v", rs)
	}
	group, ok := rs.Tabs.Get("Error_1")
	if !ok || len(group.Messages) != 1 {
		t.Fatalf("missing Error_1 group: %+v", group)
	}
	if group.Messages[0].Points == nil || *group.Messages[0].Points != 2.5 {
		t.Fatalf("points not decoded: %+v", group.Messages[0])
	}
	warn, _ := rs.Tabs.Get("Warning_1")
	if warn.Messages[0].Points != nil {
		t.Fatalf("absent pts must stay nil, got %v", *warn.Messages[0].Points)
	}
}

func TestResultSetEncodeRoundTripPreservesOrder(t *testing.T) {
	var rs ResultSet
	if err := json.Unmarshal([]byte(sampleResultJSON), &rs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, err := json.Marshal(rs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	body := string(raw)
	w := strings.Index(body, `"Warning_1"`)
	c := strings.Index(body, `"Comments"`)
	e := strings.Index(body, `"Error_1"`)
	if w < 0 || c < 0 || e < 0 || !(w < c && c < e) {
		t.Fatalf("encoded tab order changed: %s", body)
	}
}

func TestResultSetErrorWithoutTabs(t *testing.T) {
	var rs ResultSet
	if err := json.Unmarshal([]byte(`{"error_msg":"syntax error on line 3"}`), &rs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rs.Tabs != nil || rs.Tabs.Len() != 0 {
		t.Fatalf("tabs should be absent, got %+v", rs.Tabs)
	}
	if StatusForResult(rs) != ResultStatusError {
		t.Fatalf("status: got %q", StatusForResult(rs))
	}
}

func TestTabsSetReplaceKeepsPosition(t *testing.T) {
	tabs := NewTabs()
	tabs.Set("a", TabGroup{Label: "A"})
	tabs.Set("b", TabGroup{Label: "B"})
	tabs.Set("a", TabGroup{Label: "A2"})
	if got := tabs.IDs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("ids: %v", got)
	}
	if g, _ := tabs.Get("a"); g.Label != "A2" {
		t.Fatalf("replace did not update group: %+v", g)
	}
}

func TestTabsRejectsNonObject(t *testing.T) {
	var tabs Tabs
	if err := json.Unmarshal([]byte(`[1,2]`), &tabs); err == nil {
		t.Fatal("expected error for array input")
	}
}

func TestResultStatusPredicates(t *testing.T) {
	if NormalizeResultStatus(" Complete ") != ResultStatusComplete {
		t.Fatal("normalize should trim and lowercase")
	}
	if !IsTerminalResultStatus(ResultStatusComplete) || !IsTerminalResultStatus(ResultStatusError) {
		t.Fatal("complete and error are terminal")
	}
	if IsTerminalResultStatus(ResultStatusPending) {
		t.Fatal("pending is not terminal")
	}
}
