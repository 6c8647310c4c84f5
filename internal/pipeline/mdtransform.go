package pipeline

import (
	"regexp"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress runs of blank lines to one
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(content string) string
}

// MathPreprocessor prepares raw text for the Markdown converter.
type MathPreprocessor struct {
	Normalizer *Normalizer
}

// PreprocessMarkdown normalizes line endings, collapses blank-line runs and
// wraps bare math expressions.
func (p *MathPreprocessor) PreprocessMarkdown(content string) string {
	content = normalizeLineEndings(content)
	content = compressBlankLines(content)
	if p.Normalizer != nil {
		content = p.Normalizer.Normalize(content)
	}
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to one.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}
