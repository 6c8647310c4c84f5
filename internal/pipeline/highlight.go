package pipeline

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// CodeHighlighter colors fenced code blocks with chroma. Output uses CSS
// classes; the matching stylesheet comes from CSS.
type CodeHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewCodeHighlighter creates a highlighter for the named chroma style.
// Unknown names fall back to chroma's default style.
func NewCodeHighlighter(styleName string) *CodeHighlighter {
	return &CodeHighlighter{
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight returns highlighted HTML for code. ok is false when the language
// is unknown or tokenizing fails, in which case the caller escapes the code
// itself.
func (h *CodeHighlighter) Highlight(lang, code string) (html string, ok bool) {
	if lang == "" {
		return "", false
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, it); err != nil {
		return "", false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}

// CSS returns the stylesheet for the highlighter's classes.
func (h *CodeHighlighter) CSS() string {
	var buf bytes.Buffer
	if err := h.formatter.WriteCSS(&buf, h.style); err != nil {
		return ""
	}
	return buf.String()
}
