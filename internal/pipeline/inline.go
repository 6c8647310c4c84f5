package pipeline

import (
	"html"
	"strings"
)

// FormulaEngine renders TeX source to HTML. Ready reports whether the engine
// can currently render; while it cannot, formulas fall back to escaped text.
type FormulaEngine interface {
	Render(tex string, display bool) (string, error)
	Ready() bool
}

// InlineProcessor turns a single line of text into HTML. It renders math,
// code spans, bold and italic, and escapes everything else.
type InlineProcessor struct {
	normalizer *Normalizer
	engine     FormulaEngine
}

// NewInlineProcessor creates an InlineProcessor. A nil engine is treated as
// never ready.
func NewInlineProcessor(normalizer *Normalizer, engine FormulaEngine) *InlineProcessor {
	if normalizer == nil {
		normalizer = &Normalizer{}
	}
	return &InlineProcessor{normalizer: normalizer, engine: engine}
}

// Process renders one line.
func (p *InlineProcessor) Process(line string) string {
	line = p.normalizer.Normalize(line)

	cs := make(cells, 0, len(line))
	for _, sp := range scanSpans(line, false) {
		seg := line[sp.start:sp.end]
		switch sp.kind {
		case spanDisplayMath:
			cs = append(cs, cell{html: p.RenderMath(seg[2:len(seg)-2], true, seg)})
		case spanInlineMath:
			cs = append(cs, cell{html: p.RenderMath(seg[1:len(seg)-1], false, seg)})
		default:
			cs = appendText(cs, seg)
		}
	}
	return emphasize(codeSpans(cs)).String()
}

// RenderMath renders one formula. raw is the source including delimiters,
// used for the fallback when the engine is not ready, returns an error or
// panics.
func (p *InlineProcessor) RenderMath(tex string, display bool, raw string) (out string) {
	class := "math-inline"
	if display {
		class = "math-display"
	}
	fallback := `<span class="` + class + ` math-fallback">` + html.EscapeString(raw) + `</span>`

	defer func() {
		if r := recover(); r != nil {
			out = fallback
		}
	}()

	tex = strings.TrimSpace(tex)
	if tex == "" || p.engine == nil || !p.engine.Ready() {
		return fallback
	}
	rendered, err := p.engine.Render(tex, display)
	if err != nil {
		return fallback
	}
	return `<span class="` + class + `">` + rendered + `</span>`
}

// cell is one unit of a line under construction: either a literal input
// byte or a finished HTML fragment (formula, code span, tag) that later
// rules step over as a whole.
type cell struct {
	b    byte
	html string
}

func (c cell) is(b byte) bool { return c.html == "" && c.b == b }

type cells []cell

// appendText appends the bytes of a text segment. \$ becomes a literal
// dollar; other backslash pairs are kept as written.
func appendText(cs cells, seg string) cells {
	for i := 0; i < len(seg); i++ {
		c := seg[i]
		if c == '\\' && i+1 < len(seg) {
			i++
			if seg[i] != '$' {
				cs = append(cs, cell{b: c})
			}
			c = seg[i]
		}
		cs = append(cs, cell{b: c})
	}
	return cs
}

// String escapes the literal bytes and splices in the fragments.
func (cs cells) String() string {
	var b strings.Builder
	text := make([]byte, 0, len(cs))
	for _, c := range cs {
		if c.html == "" {
			text = append(text, c.b)
			continue
		}
		b.WriteString(html.EscapeString(string(text)))
		b.WriteString(c.html)
		text = text[:0]
	}
	b.WriteString(html.EscapeString(string(text)))
	return b.String()
}

// next returns the index of the first literal b at or after from, or -1.
func (cs cells) next(from int, b byte) int {
	for i := from; i < len(cs); i++ {
		if cs[i].is(b) {
			return i
		}
	}
	return -1
}

// codeSpans turns `...` runs into code fragments. A formula already
// rendered inside the backticks stays rendered.
func codeSpans(cs cells) cells {
	out := make(cells, 0, len(cs))
	for i := 0; i < len(cs); i++ {
		if !cs[i].is('`') {
			out = append(out, cs[i])
			continue
		}
		j := cs.next(i+1, '`')
		if j < 0 {
			return append(out, cs[i:]...)
		}
		if j == i+1 {
			out = append(out, cs[i])
			continue
		}
		out = append(out, cell{html: `<code class="md-code-inline">` + cs[i+1:j].String() + `</code>`})
		i = j
	}
	return out
}

func emphasize(cs cells) cells {
	return italic(bold(cs))
}

// bold converts **text** to <strong>. The text may not contain an asterisk.
func bold(cs cells) cells {
	out := make(cells, 0, len(cs))
	for i := 0; i < len(cs); i++ {
		if i+1 < len(cs) && cs[i].is('*') && cs[i+1].is('*') {
			k := cs.next(i+2, '*')
			if k > i+2 && k+1 < len(cs) && cs[k+1].is('*') {
				out = append(out, cell{html: "<strong>"})
				out = append(out, cs[i+2:k]...)
				out = append(out, cell{html: "</strong>"})
				i = k + 1
				continue
			}
		}
		out = append(out, cs[i])
	}
	return out
}

// italic converts *text* to <em>. A marker touching another asterisk is
// left alone, and the emphasized text may not start or end with a space.
func italic(cs cells) cells {
	isMarker := func(i int) bool {
		return cs[i].is('*') && (i == 0 || !cs[i-1].is('*')) && (i+1 == len(cs) || !cs[i+1].is('*'))
	}

	out := make(cells, 0, len(cs)+4)
	cursor := 0
	for i := 0; i < len(cs); i++ {
		if !isMarker(i) || i+1 == len(cs) || cs[i+1].is(' ') {
			continue
		}
		closing := -1
		for j := i + 2; j < len(cs); j++ {
			if cs[j].is('*') {
				if isMarker(j) && !cs[j-1].is(' ') {
					closing = j
				}
				break
			}
		}
		if closing < 0 {
			continue
		}
		out = append(out, cs[cursor:i]...)
		out = append(out, cell{html: "<em>"})
		out = append(out, cs[i+1:closing]...)
		out = append(out, cell{html: "</em>"})
		cursor = closing + 1
		i = closing
	}
	return append(out, cs[cursor:]...)
}
