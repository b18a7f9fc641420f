package page

import (
	"html/template"
	"strconv"
	"strings"
	"sync"

	"github.com/izzyreal/owltest/internal/protocol"
)

const perfectScoreSuffix = " Perfect score! All tests pass. Great job!"

// FormatScore builds the status line for a result: "Score: X.Y/Z", the
// perfect-score suffix when score equals max_score, then the comment. It
// returns "" when the result carries neither score nor comment.
func FormatScore(rs protocol.ResultSet) string {
	var out string
	if rs.Score != nil {
		out = "Score: " + strconv.FormatFloat(*rs.Score, 'f', 1, 64) + "/"
		if rs.MaxScore != nil {
			out += strconv.FormatFloat(*rs.MaxScore, 'f', -1, 64)
			if *rs.Score == *rs.MaxScore {
				out += perfectScoreSuffix
			}
		}
	}
	if rs.ScoreComment != nil {
		if out != "" {
			out += " "
		}
		out += *rs.ScoreComment
	}
	return out
}

// Status is the page status area. Text is only ever replaced by non-empty
// text, so a populated status is never cleared. Warnings accumulate after it.
type Status struct {
	mu       sync.Mutex
	text     string
	warnings []string
}

func (s *Status) Set(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}

func (s *Status) AppendWarning(msg string) {
	s.mu.Lock()
	s.warnings = append(s.warnings, msg)
	s.mu.Unlock()
}

func (s *Status) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) == 0 {
		return s.text
	}
	return s.text + "  " + strings.Join(s.warnings, "  ")
}

// HTML renders the status text with warnings as red spans.
func (s *Status) HTML() template.HTML {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sb strings.Builder
	sb.WriteString(template.HTMLEscapeString(s.text))
	for _, w := range s.warnings {
		sb.WriteString(`  <span style="color:red">`)
		sb.WriteString(template.HTMLEscapeString(w))
		sb.WriteString("</span>")
	}
	return template.HTML(sb.String())
}
