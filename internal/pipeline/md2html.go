package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Precompiled line patterns, tried in dispatch order.
var (
	headingPattern   = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	unorderedPattern = regexp.MustCompile(`^([ \t]*)[-*+]\s+(.*)$`)
	orderedPattern   = regexp.MustCompile(`^([ \t]*)([0-9]+)[.)]\s+(.*)$`)
	quotePattern     = regexp.MustCompile(`^\s*>\s?(.*)$`)
)

// blockState is the construct the converter is currently inside.
type blockState int

const (
	stateNone blockState = iota
	stateUnorderedList
	stateOrderedList
	stateCodeBlock
	stateMathBlock
)

// indentedItemWidth is the leading whitespace width above which a list item
// is rendered as a sub-item.
const indentedItemWidth = 2

// HTMLConverter converts Markdown text to an HTML fragment.
type HTMLConverter interface {
	ToHTML(content string) string
}

// MarkdownConverter converts the supported Markdown dialect line by line.
// It never fails: any line that matches no block rule becomes a paragraph.
type MarkdownConverter struct {
	inline      *InlineProcessor
	highlighter *CodeHighlighter
}

// NewMarkdownConverter creates a converter. highlighter may be nil, in which
// case code blocks are escaped without coloring.
func NewMarkdownConverter(inline *InlineProcessor, highlighter *CodeHighlighter) *MarkdownConverter {
	return &MarkdownConverter{inline: inline, highlighter: highlighter}
}

// ToHTML converts content, which should already be preprocessed.
func (c *MarkdownConverter) ToHTML(content string) string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return ""
	}

	w := &blockWriter{conv: c}
	for _, line := range strings.Split(content, "\n") {
		w.line(line)
	}
	w.finish()
	return w.out.String()
}

// blockWriter holds the per-conversion state.
type blockWriter struct {
	conv     *MarkdownConverter
	out      strings.Builder
	state    blockState
	lang     string
	buffered []string
}

func (w *blockWriter) line(line string) {
	switch w.state {
	case stateCodeBlock:
		if isFence(line) {
			w.flushCode()
			return
		}
		w.buffered = append(w.buffered, line)
		return
	case stateMathBlock:
		if idx := indexUnescaped(line, 0, "$$"); idx >= 0 {
			w.buffered = append(w.buffered, line[:idx])
			w.flushMath()
			if rest := strings.TrimSpace(line[idx+2:]); rest != "" {
				w.paragraph(rest)
			}
			return
		}
		w.buffered = append(w.buffered, line)
		return
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case isFence(line):
		w.closeList()
		w.state = stateCodeBlock
		w.lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	case isRule(trimmed):
		w.closeList()
		w.out.WriteString("<hr class=\"md-rule\">\n")
	case headingPattern.MatchString(line):
		w.closeList()
		m := headingPattern.FindStringSubmatch(line)
		level := strconv.Itoa(len(m[1]))
		w.out.WriteString("<h" + level + " class=\"md-heading md-h" + level + "\">")
		w.out.WriteString(w.conv.inline.Process(m[2]))
		w.out.WriteString("</h" + level + ">\n")
	case unorderedPattern.MatchString(line):
		m := unorderedPattern.FindStringSubmatch(line)
		w.openList(stateUnorderedList)
		w.item(m[1], "", m[2])
	case orderedPattern.MatchString(line):
		m := orderedPattern.FindStringSubmatch(line)
		w.openList(stateOrderedList)
		w.item(m[1], m[2], m[3])
	case quotePattern.MatchString(line):
		w.closeList()
		m := quotePattern.FindStringSubmatch(line)
		w.out.WriteString("<blockquote class=\"md-quote\">")
		w.out.WriteString(w.conv.inline.Process(m[1]))
		w.out.WriteString("</blockquote>\n")
	case trimmed == "":
		w.closeList()
		w.out.WriteString("<div class=\"md-gap\"></div>\n")
	case opensMathBlock(trimmed):
		w.closeList()
		w.state = stateMathBlock
		w.buffered = append(w.buffered[:0], trimmed[2:])
	default:
		w.closeList()
		w.paragraph(line)
	}
}

func (w *blockWriter) paragraph(text string) {
	w.out.WriteString("<p class=\"md-paragraph\">")
	w.out.WriteString(w.conv.inline.Process(strings.TrimSpace(text)))
	w.out.WriteString("</p>\n")
}

// openList switches to the given list state, closing a list of the other kind.
func (w *blockWriter) openList(state blockState) {
	if w.state == state {
		return
	}
	w.closeList()
	w.state = state
	if state == stateOrderedList {
		w.out.WriteString("<ol class=\"md-list\">\n")
	} else {
		w.out.WriteString("<ul class=\"md-list\">\n")
	}
}

func (w *blockWriter) item(indent, number, text string) {
	w.out.WriteString("<li")
	if indentWidth(indent) > indentedItemWidth {
		w.out.WriteString(" class=\"md-indent\"")
	}
	if number != "" {
		if n, err := strconv.Atoi(number); err == nil {
			number = strconv.Itoa(n)
		}
		w.out.WriteString(" value=\"" + number + "\"")
	}
	w.out.WriteString(">")
	w.out.WriteString(w.conv.inline.Process(text))
	w.out.WriteString("</li>\n")
}

func (w *blockWriter) closeList() {
	switch w.state {
	case stateUnorderedList:
		w.out.WriteString("</ul>\n")
	case stateOrderedList:
		w.out.WriteString("</ol>\n")
	default:
		return
	}
	w.state = stateNone
}

func (w *blockWriter) flushCode() {
	code := strings.Join(w.buffered, "\n")
	w.out.WriteString("<pre class=\"md-code\"><code")
	if w.lang != "" {
		w.out.WriteString(" class=\"language-" + html.EscapeString(w.lang) + "\"")
	}
	w.out.WriteString(">")
	if w.conv.highlighter != nil {
		if highlighted, ok := w.conv.highlighter.Highlight(w.lang, code); ok {
			code = highlighted
		} else {
			code = html.EscapeString(code)
		}
	} else {
		code = html.EscapeString(code)
	}
	w.out.WriteString(code)
	w.out.WriteString("</code></pre>\n")
	w.buffered = w.buffered[:0]
	w.lang = ""
	w.state = stateNone
}

func (w *blockWriter) flushMath() {
	tex := strings.TrimSpace(strings.Join(w.buffered, "\n"))
	raw := "$$" + strings.Join(w.buffered, "\n") + "$$"
	w.out.WriteString("<div class=\"math-block\">")
	w.out.WriteString(w.conv.inline.RenderMath(tex, true, raw))
	w.out.WriteString("</div>\n")
	w.buffered = w.buffered[:0]
	w.state = stateNone
}

// finish closes whatever block is still open at end of input.
func (w *blockWriter) finish() {
	switch w.state {
	case stateCodeBlock:
		w.flushCode()
	case stateMathBlock:
		w.flushMath()
	default:
		w.closeList()
	}
}

// isRule reports whether a trimmed line is a horizontal rule: three or more
// of the same '-', '*' or '_', optionally separated by spaces.
func isRule(trimmed string) bool {
	compact := strings.ReplaceAll(strings.ReplaceAll(trimmed, " ", ""), "\t", "")
	if len(compact) < 3 || !strings.ContainsRune("-*_", rune(compact[0])) {
		return false
	}
	return strings.Count(compact, compact[:1]) == len(compact)
}

// opensMathBlock reports whether a trimmed line opens a display formula that
// closes on a later line.
func opensMathBlock(trimmed string) bool {
	return strings.HasPrefix(trimmed, "$$") && indexUnescaped(trimmed, 2, "$$") < 0
}

func indentWidth(indent string) int {
	return len(indent) + 3*strings.Count(indent, "\t")
}
