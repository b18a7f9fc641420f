// Package coderender turns a tokenizer's fragment stream into a styled,
// line-numbered code listing with tabs expanded to spaces.
package coderender

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"
	"unicode/utf8"
)

const DefaultTabSize = 4

// ErrTokenStreamMismatch means the fragments do not spell out the source
// text exactly. The tokenizer broke its contract; nothing is rendered.
var ErrTokenStreamMismatch = errors.New("token stream does not cover source text")

// Token is one tokenizer fragment. Style is empty for unstyled text and may
// name several classes separated by spaces.
type Token struct {
	Text  string
	Style string
}

// Tokenizer splits text into tokens covering it exactly, with every newline
// emitted as its own "\n" token.
type Tokenizer interface {
	Tokenize(text, mode string) ([]Token, error)
}

type NodeKind int

const (
	NodeText NodeKind = iota
	NodeSpan
	NodeLineBreak
)

type Node struct {
	Kind    NodeKind
	Text    string
	Classes string
}

// Output is the rendered listing. Lines counts the line-number markers
// emitted.
type Output struct {
	Nodes []Node
	Lines int
}

type Renderer struct {
	TabSize int
}

func New(tabSize int) *Renderer {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	return &Renderer{TabSize: tabSize}
}

// Render replays tokens. Line number 1 precedes everything; each "\n" token
// becomes a line break followed by the next number.
func (r *Renderer) Render(tokens []Token) Output {
	tabSize := r.TabSize
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	out := Output{Nodes: make([]Node, 0, len(tokens)+2), Lines: 1}
	out.Nodes = append(out.Nodes, Node{Kind: NodeText, Text: lineLabel(1)})
	col := 0
	for _, tok := range tokens {
		if tok.Text == "\n" {
			out.Lines++
			out.Nodes = append(out.Nodes,
				Node{Kind: NodeLineBreak},
				Node{Kind: NodeText, Text: lineLabel(out.Lines)},
			)
			col = 0
			continue
		}
		var content string
		content, col = expandTabs(tok.Text, col, tabSize)
		if tok.Style != "" {
			out.Nodes = append(out.Nodes, Node{Kind: NodeSpan, Text: content, Classes: StyleClasses(tok.Style)})
		} else {
			out.Nodes = append(out.Nodes, Node{Kind: NodeText, Text: content})
		}
	}
	return out
}

// RenderSource is Render guarded by a check that tokens cover text exactly.
func (r *Renderer) RenderSource(text string, tokens []Token) (Output, error) {
	if err := CheckCoverage(text, tokens); err != nil {
		return Output{}, err
	}
	return r.Render(tokens), nil
}

// CheckCoverage reports whether the concatenated fragments equal text.
func CheckCoverage(text string, tokens []Token) error {
	rest := text
	for i, tok := range tokens {
		if !strings.HasPrefix(rest, tok.Text) {
			return fmt.Errorf("%w: token %d %q at offset %d", ErrTokenStreamMismatch, i, tok.Text, len(text)-len(rest))
		}
		rest = rest[len(tok.Text):]
	}
	if rest != "" {
		return fmt.Errorf("%w: %d trailing bytes not tokenized", ErrTokenStreamMismatch, len(rest))
	}
	return nil
}

// expandTabs replaces each tab with spaces up to the next multiple of tabSize.
// Columns count runes.
func expandTabs(text string, col, tabSize int) (string, int) {
	if !strings.Contains(text, "\t") {
		return text, col + utf8.RuneCountInString(text)
	}
	var sb strings.Builder
	for pos := 0; ; {
		idx := strings.IndexByte(text[pos:], '\t')
		if idx < 0 {
			sb.WriteString(text[pos:])
			col += utf8.RuneCountInString(text[pos:])
			return sb.String(), col
		}
		sb.WriteString(text[pos : pos+idx])
		col += utf8.RuneCountInString(text[pos : pos+idx])
		size := tabSize - col%tabSize
		sb.WriteString(strings.Repeat(" ", size))
		col += size
		pos += idx + 1
	}
}

// StyleClasses maps a style tag to CSS classes: "keyword special" becomes
// "cm-keyword cm-special".
func StyleClasses(style string) string {
	fields := strings.Fields(style)
	if len(fields) == 0 {
		return ""
	}
	return "cm-" + strings.Join(fields, " cm-")
}

func lineLabel(n int) string {
	return strconv.Itoa(n) + " "
}

// HTML serializes the listing as a <pre class="code"> block.
func (o Output) HTML() template.HTML {
	var sb strings.Builder
	sb.WriteString(`<pre class="code">`)
	for _, n := range o.Nodes {
		switch n.Kind {
		case NodeLineBreak:
			sb.WriteString("<br>")
		case NodeSpan:
			sb.WriteString(`<span class="`)
			sb.WriteString(html.EscapeString(n.Classes))
			sb.WriteString(`">`)
			sb.WriteString(html.EscapeString(n.Text))
			sb.WriteString("</span>")
		default:
			sb.WriteString(html.EscapeString(n.Text))
		}
	}
	sb.WriteString("</pre>")
	return template.HTML(sb.String())
}

// PlainText is the listing without markup, one line per source line. Tests
// and the CLI use it to check alignment.
func (o Output) PlainText() string {
	var sb strings.Builder
	for _, n := range o.Nodes {
		if n.Kind == NodeLineBreak {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(n.Text)
	}
	return sb.String()
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
