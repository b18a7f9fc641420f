package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/izzyreal/owltest/internal/client"
	"github.com/izzyreal/owltest/internal/importer"
	"github.com/izzyreal/owltest/internal/protocol"
)

type publishOptions struct {
	serverURL string
	id        string
	globs     []string
	format    string
	student   string
	test      string
	maxScore  float64
}

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func parsePublishFlags(args []string) (publishOptions, error) {
	var opts publishOptions
	var globs stringList
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.StringVar(&opts.serverURL, "server", envOr("OWLTEST_SERVER_URL", "http://127.0.0.1:8112"), "server base URL")
	fs.StringVar(&opts.id, "id", "", "result id to create or replace")
	fs.Var(&globs, "glob", "report file glob, ** allowed (repeatable)")
	fs.StringVar(&opts.format, "format", "", "report format: junit-xml or go-test-json (default: by extension)")
	fs.StringVar(&opts.student, "student", "", "student source file to attach")
	fs.StringVar(&opts.test, "test", "", "test source file to attach")
	fs.Float64Var(&opts.maxScore, "max-score", 0, "score for passing every test (default: one point per test)")
	if err := fs.Parse(args); err != nil {
		return publishOptions{}, err
	}
	opts.globs = globs
	if strings.TrimSpace(opts.id) == "" {
		return publishOptions{}, errors.New("publish: --id is required")
	}
	if len(opts.globs) == 0 {
		return publishOptions{}, errors.New("publish: at least one --glob is required")
	}
	return opts, nil
}

func runPublish(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parsePublishFlags(args)
	if err != nil {
		return err
	}
	rs, err := buildPublishResult(opts)
	if err != nil {
		return err
	}

	c := client.New(opts.serverURL, nil)
	if _, err := c.CheckCompatible(ctx); err != nil {
		return err
	}
	rec, err := c.PutResult(ctx, opts.id, rs)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "published %s (%s)\n", rec.ID, rec.Status)
	return nil
}

func buildPublishResult(opts publishOptions) (protocol.ResultSet, error) {
	paths, err := expandGlobs(opts.globs)
	if err != nil {
		return protocol.ResultSet{}, err
	}
	if len(paths) == 0 {
		return protocol.ResultSet{}, fmt.Errorf("publish: no report files match %s", strings.Join(opts.globs, ", "))
	}
	suites, err := importer.LoadFiles(paths, opts.format)
	if err != nil {
		return protocol.ResultSet{}, err
	}
	rs := importer.Build(suites, importer.BuildOptions{MaxScore: opts.maxScore})

	if opts.student != "" {
		name, code, err := readSource(opts.student)
		if err != nil {
			return protocol.ResultSet{}, err
		}
		rs.StudentFilename, rs.StudentCode = name, code
	}
	if opts.test != "" {
		name, code, err := readSource(opts.test)
		if err != nil {
			return protocol.ResultSet{}, err
		}
		rs.TestFilename, rs.TestCode = name, code
	}
	return rs, nil
}

func expandGlobs(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func readSource(path string) (string, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read source %q: %w", path, err)
	}
	return filepath.Base(path), string(raw), nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
