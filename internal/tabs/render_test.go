package tabs

import (
	"strings"
	"testing"

	"github.com/izzyreal/owltest/internal/protocol"
)

func TestRenderGroupListWithPoints(t *testing.T) {
	r := NewRenderer(DefaultFlatIDs)
	got, err := r.RenderGroup("Error_1", protocol.TabGroup{
		Label: "Errors",
		Messages: []protocol.Message{
			{Text: "expected 3, got 4", Points: protocol.Float(2.5)},
			{Text: "no points here"},
		},
	})
	if err != nil {
		t.Fatalf("RenderGroup: %v", err)
	}
	want := `<ol><li style="white-space:pre-wrap">[2.5 pts] expected 3, got 4</li>` +
		`<li style="white-space:pre-wrap">no points here</li></ol>`
	if string(got) != want {
		t.Fatalf("unexpected html:\n got %s\nwant %s", got, want)
	}
}

func TestRenderGroupFlatIgnoresPoints(t *testing.T) {
	r := NewRenderer(DefaultFlatIDs)
	for _, id := range DefaultFlatIDs {
		got, err := r.RenderGroup(id, protocol.TabGroup{
			Label:    id,
			Messages: []protocol.Message{{Text: "line one\nline two", Points: protocol.Float(1)}},
		})
		if err != nil {
			t.Fatalf("RenderGroup(%s): %v", id, err)
		}
		html := string(got)
		if strings.Contains(html, "pts]") || strings.Contains(html, "<ol>") || strings.Contains(html, "<li") {
			t.Fatalf("flat tab %s rendered list/points: %s", id, html)
		}
		if html != "<p style=\"white-space:pre-wrap\">line one\nline two</p>" {
			t.Fatalf("flat tab %s: unexpected html %s", id, html)
		}
	}
}

func TestRenderGroupEmpty(t *testing.T) {
	r := NewRenderer(DefaultFlatIDs)
	got, err := r.RenderGroup("Failure_1", protocol.TabGroup{Label: "Failures"})
	if err != nil {
		t.Fatalf("RenderGroup: %v", err)
	}
	if string(got) != "<ol></ol>" {
		t.Fatalf("empty list: got %q", got)
	}
	got, err = r.RenderGroup("Comments", protocol.TabGroup{Label: "Comments"})
	if err != nil {
		t.Fatalf("RenderGroup: %v", err)
	}
	if got != "" {
		t.Fatalf("empty flat block: got %q", got)
	}
}

func TestRenderGroupEscapesText(t *testing.T) {
	r := NewRenderer(nil)
	got, err := r.RenderGroup("Error_1", protocol.TabGroup{Messages: []protocol.Message{{Text: "a < b && <script>"}}})
	if err != nil {
		t.Fatalf("RenderGroup: %v", err)
	}
	if strings.Contains(string(got), "<script>") || !strings.Contains(string(got), "a &lt; b &amp;&amp;") {
		t.Fatalf("text not escaped: %s", got)
	}
}

func TestPointsPrefix(t *testing.T) {
	cases := []struct {
		pts  *float64
		want string
	}{
		{nil, ""},
		{protocol.Float(2.5), "[2.5 pts] "},
		{protocol.Float(3), "[3.0 pts] "},
		{protocol.Float(-1), "[-1.0 pts] "},
	}
	for _, tc := range cases {
		if got := PointsPrefix(tc.pts); got != tc.want {
			t.Fatalf("PointsPrefix: got %q want %q", got, tc.want)
		}
	}
}

func TestIsFlatOnlyExactIDs(t *testing.T) {
	r := NewRenderer(DefaultFlatIDs)
	if !r.IsFlat("Comments") || r.IsFlat("Comments_2") || r.IsFlat("comments") {
		t.Fatal("flat policy must match exact ids only")
	}
}
