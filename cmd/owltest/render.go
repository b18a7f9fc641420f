package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/izzyreal/owltest/internal/page"
	"github.com/izzyreal/owltest/internal/protocol"
	"github.com/izzyreal/owltest/internal/tabhost"
)

func runRender(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	in := fs.String("in", "", "result JSON file, - for stdin")
	tabSize := fs.Int("tab-size", 0, "tab stop width (default 4)")
	mode := fs.String("mode", "", "syntax mode for code tabs (default python)")
	studentURL := fs.String("student-url", "", "link target for the student filename")
	tab := fs.String("tab", "", "tab id to activate")
	title := fs.String("title", "", "page title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*in) == "" {
		return errors.New("render: --in is required")
	}

	var src io.Reader = stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return fmt.Errorf("open result: %w", err)
		}
		defer f.Close()
		src = f
	}
	var rs protocol.ResultSet
	if err := json.NewDecoder(src).Decode(&rs); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}

	m := page.NewManager(page.Options{TabSize: *tabSize, Mode: *mode, StudentURL: *studentURL})
	if err := m.MakeTabs(rs); err != nil {
		return err
	}
	if *tab != "" {
		if err := m.Activate(tabhost.HandleFor(*tab)); err != nil {
			return err
		}
	}
	pageTitle := *title
	if pageTitle == "" {
		pageTitle = "OwlTest results"
		if rs.StudentFilename != "" {
			pageTitle += ": " + rs.StudentFilename
		}
	}
	return m.Render(stdout, pageTitle)
}
