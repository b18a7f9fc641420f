package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path"
	"regexp"
	"strconv"
	"strings"
)

type goTestEvent struct {
	Action  string
	Package string
	Test    string
	Elapsed float64
	Output  string
}

var goSourceLocationRE = regexp.MustCompile(`(?:^|\s)((?:[A-Za-z]:)?[A-Za-z0-9_./\\-]+\.go):([0-9]+):`)

// goTestRun folds test2json events into cases, in the order tests started.
type goTestRun struct {
	cases []*Case
	index map[string]*Case
	out   map[*Case]*strings.Builder
}

func (r *goTestRun) caseFor(ev goTestEvent) *Case {
	key := ev.Package + "\x00" + ev.Test
	if c, ok := r.index[key]; ok {
		return c
	}
	c := &Case{Package: ev.Package, Name: ev.Test}
	r.index[key] = c
	r.out[c] = &strings.Builder{}
	r.cases = append(r.cases, c)
	return c
}

func (r *goTestRun) apply(ev goTestEvent) {
	if strings.TrimSpace(ev.Test) == "" {
		// Package-level events carry no per-test result.
		return
	}
	c := r.caseFor(ev)
	switch ev.Action {
	case "output":
		r.out[c].WriteString(ev.Output)
		if c.File == "" {
			c.File, c.Line = goSourceLocation(ev.Output)
		}
	case "pass", "fail", "skip":
		c.Status = ev.Action
		if ev.Elapsed > 0 {
			c.DurationSeconds = ev.Elapsed
		}
	}
}

// ParseGoTestJSON reads `go test -json` output. Lines that are not JSON
// events are skipped. A test that started but never reported a result (the
// binary crashed or timed out) is an error.
func ParseGoTestJSON(name string, data []byte) Suite {
	run := &goTestRun{index: map[string]*Case{}, out: map[*Case]*strings.Builder{}}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		var ev goTestEvent
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		run.apply(ev)
	}

	suite := Suite{Name: name, Format: FormatGoTestJSON, Cases: make([]Case, 0, len(run.cases))}
	for _, c := range run.cases {
		if c.Status == "" {
			c.Status = StatusError
		}
		c.Output = strings.TrimRight(run.out[c].String(), "\n")
		suite.Cases = append(suite.Cases, *c)
	}
	suite.count()
	return suite
}

// goSourceLocation finds the first "file.go:line:" reference in a line of
// test output.
func goSourceLocation(out string) (string, int) {
	m := goSourceLocationRE.FindStringSubmatch(out)
	if m == nil {
		return "", 0
	}
	line, err := strconv.Atoi(m[2])
	if err != nil || line <= 0 {
		return "", 0
	}
	return normalizeTestSourcePath(m[1]), line
}

func normalizeTestSourcePath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	return path.Clean(p)
}
