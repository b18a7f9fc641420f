// Package highlight adapts chroma lexers to the coderender token stream.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/izzyreal/owltest/internal/coderender"
)

const DefaultMode = "python"

// ChromaTokenizer tokenizes with the chroma lexer named by mode. Unknown
// modes fall back to plain text.
type ChromaTokenizer struct{}

func New() ChromaTokenizer {
	return ChromaTokenizer{}
}

func (ChromaTokenizer) Tokenize(text, mode string) ([]coderender.Token, error) {
	lexer := lookupLexer(mode)
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("tokenise %s: %w", lexerName(lexer), err)
	}

	var toks []coderender.Token
	for tok := it(); tok != chroma.EOF; tok = it() {
		toks = appendSplitLines(toks, tok.Value, StyleFor(tok.Type))
	}
	return trimToSource(toks, text), nil
}

// Plain tokenizes without styles: one fragment per line plus the newlines.
func Plain(text string) []coderender.Token {
	return appendSplitLines(nil, text, "")
}

func lookupLexer(mode string) chroma.Lexer {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		mode = DefaultMode
	}
	if l := lexers.Get(mode); l != nil {
		return l
	}
	if l := lexers.Match(mode); l != nil {
		return l
	}
	return lexers.Fallback
}

func lexerName(l chroma.Lexer) string {
	if cfg := l.Config(); cfg != nil {
		return cfg.Name
	}
	return "lexer"
}

// appendSplitLines emits value with every newline as a standalone token.
func appendSplitLines(toks []coderender.Token, value, style string) []coderender.Token {
	for i, part := range strings.Split(value, "\n") {
		if i > 0 {
			toks = append(toks, coderender.Token{Text: "\n"})
		}
		if part != "" {
			toks = append(toks, coderender.Token{Text: part, Style: style})
		}
	}
	return toks
}

// trimToSource drops the newline some lexers append to unterminated input.
func trimToSource(toks []coderender.Token, text string) []coderender.Token {
	if strings.HasSuffix(text, "\n") || len(toks) == 0 {
		return toks
	}
	if last := toks[len(toks)-1]; last.Text == "\n" && last.Style == "" {
		return toks[:len(toks)-1]
	}
	return toks
}

// StyleFor names the CodeMirror-style classes for a chroma token type.
// Whitespace, punctuation and plain text are unstyled.
func StyleFor(t chroma.TokenType) string {
	switch {
	case t == chroma.KeywordConstant:
		return "keyword atom"
	case t == chroma.OperatorWord:
		return "keyword"
	case t.InCategory(chroma.Keyword):
		return "keyword"
	case t == chroma.NameBuiltin || t == chroma.NameBuiltinPseudo:
		return "builtin"
	case t == chroma.NameFunction || t == chroma.NameClass:
		return "def"
	case t == chroma.NameDecorator:
		return "meta"
	case t == chroma.NameException:
		return "variable-2"
	case t.InCategory(chroma.Name):
		return "variable"
	case t == chroma.LiteralStringEscape:
		return "string-2"
	case t.InSubCategory(chroma.LiteralString):
		return "string"
	case t.InSubCategory(chroma.LiteralNumber):
		return "number"
	case t.InCategory(chroma.Comment):
		return "comment"
	case t == chroma.Operator:
		return "operator"
	case t == chroma.Error:
		return "error"
	default:
		return ""
	}
}
