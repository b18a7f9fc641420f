package importer

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// junitNode decodes both <testsuites> and <testsuite>; a <testsuites> root
// simply has no cases of its own.
type junitNode struct {
	XMLName  xml.Name
	Name     string      `xml:"name,attr"`
	Package  string      `xml:"package,attr"`
	Cases    []junitCase `xml:"testcase"`
	Children []junitNode `xml:"testsuite"`
}

type junitCase struct {
	Name      string         `xml:"name,attr"`
	ClassName string         `xml:"classname,attr"`
	File      string         `xml:"file,attr"`
	Line      string         `xml:"line,attr"`
	Time      string         `xml:"time,attr"`
	Errors    []junitOutcome `xml:"error"`
	Failures  []junitOutcome `xml:"failure"`
	Skipped   []junitOutcome `xml:"skipped"`
	SystemOut string         `xml:"system-out"`
	SystemErr string         `xml:"system-err"`
}

type junitOutcome struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// ParseJUnitXML reads a <testsuite> or <testsuites> document. A test with an
// <error> (the test itself broke) is reported separately from one with a
// <failure> (an assertion did not hold).
func ParseJUnitXML(name string, data []byte) (Suite, error) {
	suite := Suite{Name: name, Format: FormatJUnitXML}
	if len(strings.TrimSpace(string(data))) == 0 {
		return suite, nil
	}

	var root junitNode
	if err := xml.Unmarshal(data, &root); err != nil {
		return suite, fmt.Errorf("decode junit xml: %w", err)
	}
	if tag := root.XMLName.Local; tag != "testsuite" && tag != "testsuites" {
		return suite, fmt.Errorf("unexpected junit root element <%s>", tag)
	}

	root.walk(func(n junitNode) {
		if suite.Name == "" {
			suite.Name = strings.TrimSpace(n.Name)
		}
		for _, c := range n.Cases {
			suite.Cases = append(suite.Cases, c.toCase(n.defaultPackage()))
		}
	})
	suite.count()
	return suite, nil
}

// walk visits n and then its nested suites, depth first.
func (n junitNode) walk(visit func(junitNode)) {
	visit(n)
	for _, child := range n.Children {
		child.walk(visit)
	}
}

func (n junitNode) defaultPackage() string {
	if pkg := strings.TrimSpace(n.Package); pkg != "" {
		return pkg
	}
	return strings.TrimSpace(n.Name)
}

func (c junitCase) toCase(defaultPackage string) Case {
	pkg := strings.TrimSpace(c.ClassName)
	if pkg == "" {
		pkg = defaultPackage
	}
	return Case{
		Package:         pkg,
		Name:            strings.TrimSpace(c.Name),
		File:            normalizeTestSourcePath(c.File),
		Line:            atoiOr(c.Line, 0),
		Status:          c.status(),
		DurationSeconds: atofOr(c.Time, 0),
		Output:          c.details(),
	}
}

func (c junitCase) status() string {
	switch {
	case len(c.Errors) > 0:
		return StatusError
	case len(c.Failures) > 0:
		return StatusFail
	case len(c.Skipped) > 0:
		return StatusSkip
	default:
		return StatusPass
	}
}

// details is the message text shown for the case: errors, failures and skip
// reasons first, then captured output.
func (c junitCase) details() string {
	var lines []string
	for _, group := range [][]junitOutcome{c.Errors, c.Failures, c.Skipped} {
		for _, o := range group {
			lines = append(lines, o.lines()...)
		}
	}
	if out := strings.TrimSpace(c.SystemOut); out != "" {
		lines = append(lines, "stdout:", out)
	}
	if errOut := strings.TrimSpace(c.SystemErr); errOut != "" {
		lines = append(lines, "stderr:", errOut)
	}
	return strings.Join(lines, "\n")
}

func (o junitOutcome) lines() []string {
	var out []string
	kind, msg := strings.TrimSpace(o.Type), strings.TrimSpace(o.Message)
	switch {
	case kind != "" && msg != "":
		out = append(out, kind+": "+msg)
	case kind != "":
		out = append(out, kind+":")
	case msg != "":
		out = append(out, msg)
	}
	if body := strings.TrimSpace(o.Body); body != "" {
		out = append(out, body)
	}
	return out
}

func atoiOr(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

func atofOr(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return v
}
