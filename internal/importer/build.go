package importer

import (
	"fmt"
	"strings"

	"github.com/izzyreal/owltest/internal/protocol"
)

const CommentsID = "Comments"

type BuildOptions struct {
	// MaxScore is the score for passing every graded case. Zero means one
	// point per graded case.
	MaxScore float64
}

// Build converts parsed suites into a result set. Each suite N contributes
// Error_N, Failure_N and Warning_N groups for its errored, failed and skipped
// cases, and a summary line to the Comments group. Skipped cases are not
// graded.
func Build(suites []Suite, opts BuildOptions) protocol.ResultSet {
	graded := 0
	passed := 0
	for _, s := range suites {
		graded += s.Total - s.Skipped
		passed += s.Passed
	}
	if graded == 0 {
		return protocol.ResultSet{ErrorMessage: "No test results found in the uploaded reports."}
	}

	maxScore := opts.MaxScore
	if maxScore <= 0 {
		maxScore = float64(graded)
	}
	perCase := maxScore / float64(graded)

	tabs := protocol.NewTabs()
	comments := make([]protocol.Message, 0, len(suites))
	for i, s := range suites {
		n := i + 1
		var errored, failed, skipped []protocol.Message
		for _, c := range s.Cases {
			switch c.Status {
			case StatusError:
				errored = append(errored, caseMessage(c, protocol.Float(perCase)))
			case StatusFail:
				failed = append(failed, caseMessage(c, protocol.Float(perCase)))
			case StatusSkip:
				skipped = append(skipped, caseMessage(c, nil))
			}
		}
		label := suiteLabel(s, n)
		if len(errored) > 0 {
			tabs.Set(fmt.Sprintf("Error_%d", n), protocol.TabGroup{Label: "Errors: " + label, Messages: errored})
		}
		if len(failed) > 0 {
			tabs.Set(fmt.Sprintf("Failure_%d", n), protocol.TabGroup{Label: "Failures: " + label, Messages: failed})
		}
		if len(skipped) > 0 {
			tabs.Set(fmt.Sprintf("Warning_%d", n), protocol.TabGroup{Label: "Skipped: " + label, Messages: skipped})
		}
		comments = append(comments, protocol.Message{Text: suiteSummary(s, label)})
	}
	tabs.Set(CommentsID, protocol.TabGroup{Label: "Comments", Messages: comments})

	return protocol.ResultSet{
		Score:    protocol.Float(perCase * float64(passed)),
		MaxScore: protocol.Float(maxScore),
		Tabs:     tabs,
	}
}

func suiteLabel(s Suite, n int) string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return fmt.Sprintf("suite %d", n)
}

func suiteSummary(s Suite, label string) string {
	return fmt.Sprintf("%s: %d passed, %d failed, %d errors, %d skipped (%d total)",
		label, s.Passed, s.Failed, s.Errored, s.Skipped, s.Total)
}

func caseMessage(c Case, pts *float64) protocol.Message {
	var b strings.Builder
	b.WriteString(c.FullName())
	if c.File != "" {
		b.WriteString(" (")
		b.WriteString(c.File)
		if c.Line > 0 {
			fmt.Fprintf(&b, ":%d", c.Line)
		}
		b.WriteString(")")
	}
	if out := strings.TrimSpace(c.Output); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
	}
	return protocol.Message{Text: b.String(), Points: pts}
}
