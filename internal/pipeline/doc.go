// Package pipeline implements the Markdown and LaTeX to HTML rendering stages.
//
// Text flows through three stages:
//   - Preprocessing: line ending normalization and math normalization, which
//     wraps bare LaTeX such as \frac{1}{2} in $...$ without touching text
//     that is already delimited
//   - Block conversion: a line-oriented state machine for headings, lists,
//     quotes, rules, fenced code and multi-line display math
//   - Inline processing: formulas, code spans, bold and italic, with all
//     literal text HTML-escaped
//
// Formula rendering is delegated to a FormulaEngine supplied by the caller.
// When the engine is missing, not ready or rejects an expression, that
// expression is shown as escaped source and the rest of the output is
// unaffected. No stage returns an error.
package pipeline
