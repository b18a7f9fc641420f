// Package importer turns test-runner reports into result sets for the
// results page.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	FormatJUnitXML   = "junit-xml"
	FormatGoTestJSON = "go-test-json"
)

const (
	StatusPass  = "pass"
	StatusFail  = "fail"
	StatusError = "error"
	StatusSkip  = "skip"
)

type Case struct {
	Package         string
	Name            string
	File            string
	Line            int
	Status          string
	DurationSeconds float64
	Output          string
}

// FullName is the package-qualified test name.
func (c Case) FullName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

type Suite struct {
	Name    string
	Format  string
	Cases   []Case
	Total   int
	Passed  int
	Failed  int
	Errored int
	Skipped int
}

func (s *Suite) count() {
	s.Total = len(s.Cases)
	s.Passed, s.Failed, s.Errored, s.Skipped = 0, 0, 0, 0
	for _, c := range s.Cases {
		switch c.Status {
		case StatusPass:
			s.Passed++
		case StatusFail:
			s.Failed++
		case StatusError:
			s.Errored++
		case StatusSkip:
			s.Skipped++
		}
	}
}

// DetectFormat guesses a report format from a file name.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatJUnitXML, nil
	case ".json", ".jsonl", ".ndjson":
		return FormatGoTestJSON, nil
	default:
		return "", fmt.Errorf("cannot detect report format of %q", path)
	}
}

// Parse parses one report. An empty format is detected from name.
func Parse(name, format string, data []byte) (Suite, error) {
	if strings.TrimSpace(format) == "" {
		detected, err := DetectFormat(name)
		if err != nil {
			return Suite{}, err
		}
		format = detected
	}
	suiteName := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	switch format {
	case FormatJUnitXML:
		return ParseJUnitXML(suiteName, data)
	case FormatGoTestJSON:
		return ParseGoTestJSON(suiteName, data), nil
	default:
		return Suite{}, fmt.Errorf("unsupported report format %q", format)
	}
}

// LoadFiles reads and parses every report file.
func LoadFiles(paths []string, format string) ([]Suite, error) {
	suites := make([]Suite, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read report %q: %w", p, err)
		}
		suite, err := Parse(p, format, data)
		if err != nil {
			return nil, fmt.Errorf("parse report %q: %w", p, err)
		}
		suites = append(suites, suite)
	}
	return suites, nil
}
