package pipeline

import (
	"regexp"
	"sort"
	"strings"
)

// combinatoricsPattern matches C_n^k, A_n^k and P_n^k with bare or braced
// operands. Bare letter operands are single characters.
var combinatoricsPattern = regexp.MustCompile(`([CAP])_(\{[0-9A-Za-z+-]+\}|[0-9]+|[a-z])\^(\{[0-9A-Za-z+-]+\}|[0-9]+|[a-z])`)

// Normalizer wraps bare LaTeX expressions in $...$ so that the inline
// processor can find them. Text already inside math delimiters, code fences
// or code spans is never modified.
type Normalizer struct{}

// exprRange is a byte range of free text selected for wrapping. When display
// is set the range came from \[...\] and is emitted as $$...$$.
type exprRange struct {
	start, end int
	body       string
	display    bool
}

// Normalize returns text with every bare math expression wrapped in $...$.
// Normalize is idempotent.
func (n *Normalizer) Normalize(text string) string {
	if !strings.ContainsAny(text, `\_`) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 16)
	for _, sp := range scanSpans(text, true) {
		if sp.protected() {
			b.WriteString(text[sp.start:sp.end])
			continue
		}
		writeWrapped(&b, text, sp.start, sp.end)
	}
	return b.String()
}

// writeWrapped writes the free segment text[lo:hi] with its expressions
// wrapped. Neighbouring bytes outside the segment are consulted so that a
// new delimiter never touches an existing one.
func writeWrapped(b *strings.Builder, text string, lo, hi int) {
	ranges := bracketRanges(text, lo, hi)
	ranges = append(ranges, commandRanges(text, lo, hi, ranges)...)
	ranges = append(ranges, combinatoricsRanges(text, lo, hi, ranges)...)
	ranges = mergeRanges(text, ranges)

	cursor, lastEnd := lo, -1
	for _, r := range ranges {
		b.WriteString(text[cursor:r.start])
		delim := "$"
		if r.display {
			delim = "$$"
		}
		// A delimiter right after $ or a backslash would be read as part of
		// a $$ run or as an escaped dollar on the next pass.
		if r.start == lastEnd || (r.start > 0 && (text[r.start-1] == '$' || text[r.start-1] == '\\')) {
			b.WriteByte(' ')
		}
		b.WriteString(delim)
		b.WriteString(r.body)
		if isEscapedAt(r.body+delim, 0, len(r.body)) {
			b.WriteByte(' ')
		}
		b.WriteString(delim)
		if r.end < len(text) && text[r.end] == '$' {
			b.WriteByte(' ')
		}
		cursor, lastEnd = r.end, r.end
	}
	b.WriteString(text[cursor:hi])
}

// bracketRanges converts \( ... \) and \[ ... \] pairs into dollar-delimited
// ranges.
func bracketRanges(text string, lo, hi int) []exprRange {
	var out []exprRange
	for i := lo; i+1 < hi; i++ {
		if text[i] != '\\' {
			continue
		}
		var closer string
		switch text[i+1] {
		case '(':
			closer = `\)`
		case '[':
			closer = `\]`
		case '\\':
			i++
			continue
		default:
			continue
		}
		if isEscapedAt(text, lo, i) {
			continue
		}
		end := indexCloser(text, i+2, hi, closer[1])
		if end < 0 {
			continue
		}
		body := strings.TrimSpace(text[i+2 : end])
		stop := end + 2
		if body != "" {
			out = append(out, exprRange{
				start:   i,
				end:     stop,
				body:    normalizeCombinatorics(body),
				display: closer == `\]`,
			})
		}
		i = stop - 1
	}
	return out
}

// indexCloser returns the index of the backslash of the first \) or \]
// (per closer) in text[from:hi]. An escaped backslash, as in \\), does not
// close the group.
func indexCloser(text string, from, hi int, closer byte) int {
	for j := from; j+1 < hi; j++ {
		if text[j] != '\\' {
			continue
		}
		if text[j+1] == closer {
			return j
		}
		j++
	}
	return -1
}

// commandRanges expands every recognized command outside the given ranges.
func commandRanges(text string, lo, hi int, taken []exprRange) []exprRange {
	var out []exprRange
	for i := lo; i < hi; i++ {
		if text[i] != '\\' {
			continue
		}
		if i+1 < hi && !isASCIILetter(text[i+1]) {
			i++
			continue
		}
		nameEnd := i + 1
		for nameEnd < hi && isASCIILetter(text[nameEnd]) {
			nameEnd++
		}
		if covered(taken, i) || !IsRecognizedCommand(text[i+1:nameEnd]) {
			i = nameEnd - 1
			continue
		}
		start, end := expand(text, lo, hi, i, nameEnd)
		start, end = trimExpression(text, start, end)
		if end > start {
			out = append(out, exprRange{start: start, end: end})
		}
		i = nameEnd - 1
	}
	return out
}

// combinatoricsRanges finds C_n^k style notation outside the given ranges.
func combinatoricsRanges(text string, lo, hi int, taken []exprRange) []exprRange {
	var out []exprRange
	for _, m := range combinatoricsPattern.FindAllStringIndex(text[lo:hi], -1) {
		start, end := lo+m[0], lo+m[1]
		if start > lo && isWordByte(text[start-1]) {
			continue
		}
		if end < hi && isASCIILetter(text[end]) {
			continue
		}
		if covered(taken, start) || covered(taken, end-1) {
			continue
		}
		out = append(out, exprRange{start: start, end: end})
	}
	return out
}

// expand grows the command at text[cmd:nameEnd] into the full expression.
func expand(text string, lo, hi, cmd, nameEnd int) (int, int) {
	start := cmd
	for start > lo && isMathByte(text[start-1]) {
		start--
	}
	if start > lo && start < cmd && text[start-1] == '\\' {
		// The attached run belongs to another command or escape.
		if isASCIILetter(text[start]) {
			for start < cmd && isASCIILetter(text[start]) {
				start++
			}
		} else {
			start++
		}
	}

	end := nameEnd
	for end < hi {
		c := text[end]
		switch {
		case c == '{':
			closing := matchBrace(text, end, hi)
			if closing < 0 {
				return start, end
			}
			end = closing + 1
		case c == '\\':
			next, ok := chainEscape(text, end, hi)
			if !ok {
				return start, end
			}
			end = next
		case c == ' ':
			next, ok := crossSpace(text, end, hi)
			if !ok {
				return start, end
			}
			end = next
		case isMathByte(c):
			end++
		default:
			return start, end
		}
	}
	return start, end
}

// chainEscape continues an expression through a recognized command or a
// spacing/brace escape beginning at text[i] == '\\'.
func chainEscape(text string, i, hi int) (int, bool) {
	if i+1 >= hi {
		return 0, false
	}
	if strings.IndexByte(`{},;!|`, text[i+1]) >= 0 {
		return i + 2, true
	}
	nameEnd := i + 1
	for nameEnd < hi && isASCIILetter(text[nameEnd]) {
		nameEnd++
	}
	if nameEnd == i+1 || !IsRecognizedCommand(text[i+1:nameEnd]) {
		return 0, false
	}
	return nameEnd, true
}

// crossSpace decides whether the single space at text[i] joins the
// expression with the token that follows it.
func crossSpace(text string, i, hi int) (int, bool) {
	if i+1 >= hi || text[i+1] == ' ' || text[i+1] == '\n' {
		return 0, false
	}
	if i > 0 && strings.IndexByte(".:;", text[i-1]) >= 0 {
		return 0, false
	}
	tokEnd := i + 1
	for tokEnd < hi && text[tokEnd] != ' ' && text[tokEnd] != '\n' {
		tokEnd++
	}
	if !isMathToken(text[i+1 : tokEnd]) {
		return 0, false
	}
	return i + 1, true
}

// isMathToken reports whether a whitespace-delimited token continues a
// formula rather than starting prose.
func isMathToken(tok string) bool {
	if tok[0] == '\\' {
		_, ok := chainEscape(tok, 0, len(tok))
		return ok
	}
	letters := 0
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c == '\\' {
			break
		}
		if !isMathByte(c) {
			return false
		}
		if isASCIILetter(c) {
			letters++
		}
	}
	switch {
	case letters < len(strings.TrimRight(tok, ".,;:!?")):
		return true
	case letters == 1:
		return true
	case len(tok) == 2 && tok[0] == 'd':
		return true
	}
	return false
}

// trimExpression drops surrounding spaces, trailing sentence punctuation and
// unbalanced edge brackets.
func trimExpression(text string, start, end int) (int, int) {
	for {
		prevStart, prevEnd := start, end
		for start < end && strings.IndexByte(" .,;:!?", text[start]) >= 0 {
			start++
		}
		for end > start && strings.IndexByte(" .,;:!?", text[end-1]) >= 0 && !isEscapedAt(text, start, end-1) {
			end--
		}
		if end > start {
			expr := text[start:end]
			last := expr[len(expr)-1]
			if open, ok := closerFor[last]; ok && unbalanced(expr, open, last) > 0 && !isEscapedAt(text, start, end-1) {
				end--
			} else if closer, ok := openerFor[expr[0]]; ok && unbalanced(expr, expr[0], closer) < 0 {
				start++
			}
		}
		if start == prevStart && end == prevEnd {
			return start, end
		}
	}
}

var (
	closerFor = map[byte]byte{')': '(', ']': '[', '}': '{'}
	openerFor = map[byte]byte{'(': ')', '[': ']', '{': '}'}
)

// unbalanced returns closers minus openers in expr.
func unbalanced(expr string, open, close byte) int {
	n := 0
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case open:
			n--
		case close:
			n++
		}
	}
	return n
}

// mergeRanges sorts ranges and merges those that overlap or touch. The body
// of every command or notation range is filled in from the text.
func mergeRanges(text string, ranges []exprRange) []exprRange {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	merged := []exprRange{ranges[0]}
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end && !last.display && !r.display && last.body == "" && r.body == "" {
			if r.end > last.end {
				last.end = r.end
			}
			continue
		}
		if r.start < last.end {
			continue
		}
		merged = append(merged, r)
	}
	for i := range merged {
		if merged[i].body == "" {
			merged[i].body = normalizeCombinatorics(text[merged[i].start:merged[i].end])
		}
	}
	return merged
}

// normalizeCombinatorics rewrites C_n^k style notation inside a formula to
// the braced form C_{n}^{k}.
func normalizeCombinatorics(expr string) string {
	matches := combinatoricsPattern.FindAllStringSubmatchIndex(expr, -1)
	if matches == nil {
		return expr
	}
	var b strings.Builder
	cursor := 0
	for _, m := range matches {
		if m[0] > 0 && isWordByte(expr[m[0]-1]) {
			continue
		}
		b.WriteString(expr[cursor:m[0]])
		b.WriteString(expr[m[2]:m[3]])
		b.WriteString("_")
		b.WriteString(braced(expr[m[4]:m[5]]))
		b.WriteString("^")
		b.WriteString(braced(expr[m[6]:m[7]]))
		cursor = m[1]
	}
	b.WriteString(expr[cursor:])
	return b.String()
}

func braced(operand string) string {
	if strings.HasPrefix(operand, "{") {
		return operand
	}
	return "{" + operand + "}"
}

// matchBrace returns the index of the brace closing text[open], or -1.
func matchBrace(text string, open, hi int) int {
	depth := 0
	for i := open; i < hi; i++ {
		switch text[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		case '\n':
			return -1
		}
	}
	return -1
}

func covered(ranges []exprRange, i int) bool {
	for _, r := range ranges {
		if i >= r.start && i < r.end {
			return true
		}
	}
	return false
}

// isEscapedAt reports whether text[i] is preceded by an odd number of
// backslashes, counting no further back than lo.
func isEscapedAt(text string, lo, i int) bool {
	n := 0
	for j := i - 1; j >= lo && text[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordByte(c byte) bool {
	return isASCIILetter(c) || (c >= '0' && c <= '9') || c == '\\' || c == '_'
}

// isMathByte reports whether c may appear in an unbroken formula run.
func isMathByte(c byte) bool {
	if isASCIILetter(c) || (c >= '0' && c <= '9') {
		return true
	}
	return strings.IndexByte("_^{}()|[]+-/=<>!,.'", c) >= 0
}
