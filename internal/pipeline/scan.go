package pipeline

import "strings"

// spanKind classifies a region of text found by scanSpans.
type spanKind int

const (
	spanFree        spanKind = iota // plain text, eligible for auto-wrapping
	spanInlineMath                  // $...$ on a single line
	spanDisplayMath                 // $$...$$, may cross lines
	spanOpen                        // unterminated delimiter and the tail it protects
	spanCode                        // fenced block or `code` span
)

// span is a half-open byte range [start, end) of the scanned text.
type span struct {
	start, end int
	kind       spanKind
}

// protected reports whether the span must be copied verbatim by the normalizer.
func (s span) protected() bool {
	return s.kind != spanFree
}

// scanSpans partitions text into contiguous spans covering every byte.
//
// Display delimiters are matched before inline ones. A backslash escapes
// the byte after it, so \$ is a literal dollar while \\$ is a LaTeX line
// break followed by a delimiter. A $$ without a closing $$ protects the rest of the text,
// and a $ without a closing $ on its line protects the rest of that line, so
// a formula that is still being streamed is never rewritten.
//
// With code set, fenced blocks and backtick spans are reported as spanCode
// and math delimiters inside them are ignored.
func scanSpans(text string, code bool) []span {
	var spans []span
	freeStart := 0
	emit := func(start, end int, kind spanKind) {
		if start > freeStart {
			spans = append(spans, span{start: freeStart, end: start, kind: spanFree})
		}
		if end > start {
			spans = append(spans, span{start: start, end: end, kind: kind})
		}
		freeStart = end
	}

	i := 0
	for i < len(text) {
		if code && atLineStart(text, i) {
			if end, ok := fenceBlockEnd(text, i); ok {
				emit(i, end, spanCode)
				i = end
				continue
			}
		}

		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text):
			i += 2
		case code && c == '`':
			end := strings.IndexByte(text[i+1:], '`')
			nl := strings.IndexByte(text[i+1:], '\n')
			if end <= 0 || (nl >= 0 && nl < end) {
				i++
				continue
			}
			emit(i, i+end+2, spanCode)
			i += end + 2
		case c == '$' && i+1 < len(text) && text[i+1] == '$':
			end := indexUnescaped(text, i+2, "$$")
			if end < 0 {
				emit(i, len(text), spanOpen)
				return spans
			}
			emit(i, end+2, spanDisplayMath)
			i = end + 2
		case c == '$':
			end := closingDollar(text, i+1)
			if end < 0 {
				eol := lineEnd(text, i)
				emit(i, eol, spanOpen)
				i = eol
				continue
			}
			emit(i, end+1, spanInlineMath)
			i = end + 1
		default:
			i++
		}
	}
	if freeStart < len(text) {
		spans = append(spans, span{start: freeStart, end: len(text), kind: spanFree})
	}
	return spans
}

// indexUnescaped returns the index of the first sep at or after from that is
// not escaped, or -1. Backslashes are consumed in pairs.
func indexUnescaped(text string, from int, sep string) int {
	for i := from; i+len(sep) <= len(text); i++ {
		if text[i] == '\\' {
			i++
			continue
		}
		if strings.HasPrefix(text[i:], sep) {
			return i
		}
	}
	return -1
}

// closingDollar finds the $ closing an inline formula opened just before
// from. The formula may not cross a newline.
func closingDollar(text string, from int) int {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case '\n':
			return -1
		case '\\':
			i++
		case '$':
			return i
		}
	}
	return -1
}

func atLineStart(text string, i int) bool {
	return i == 0 || text[i-1] == '\n'
}

func lineEnd(text string, i int) int {
	if nl := strings.IndexByte(text[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(text)
}

// fenceBlockEnd reports whether a code fence opens at the line starting at i
// and returns the end of the block including its closing fence line.
func fenceBlockEnd(text string, i int) (int, bool) {
	eol := lineEnd(text, i)
	if !isFence(text[i:eol]) {
		return 0, false
	}
	for pos := eol; pos < len(text); {
		start := pos + 1
		end := lineEnd(text, start)
		if isFence(text[start:end]) {
			return end, true
		}
		pos = end
	}
	return len(text), true
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}
