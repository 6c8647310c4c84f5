package mdmath

import (
	"time"

	"github.com/alnah/go-mdmath/internal/formula"
)

// Engine renders one TeX expression to HTML. Ready reports whether Render
// can be called now.
type Engine = formula.Engine

// MathMLEngine returns an in-process engine producing MathML. macros maps
// macro names (without backslash) to their expansion and may be nil.
func MathMLEngine(macros map[string]string) Engine {
	return formula.NewMathML(macros)
}

// UnavailableEngine returns an engine that is never ready. Every formula is
// rendered as its escaped source.
func UnavailableEngine() Engine {
	return formula.Unavailable{}
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds options resolved at construction.
type rendererConfig struct {
	class          string
	highlightStyle string
	styleInput     string
	assetPath      string
	stylesheetLink string
	watchAttempts  int
	watchInterval  time.Duration
}

// WithEngine sets the formula engine. A nil engine is never ready.
func WithEngine(e Engine) Option {
	return func(r *Renderer) {
		if e == nil {
			e = formula.Unavailable{}
		}
		r.engine = e
	}
}

// WithHighlighting enables syntax highlighting of fenced code blocks that
// name a language. style is a chroma style name; unknown names fall back
// to the chroma default.
func WithHighlighting(style string) Option {
	return func(r *Renderer) {
		r.cfg.highlightStyle = style
	}
}

// WithClass adds class to the wrapper element of every render.
func WithClass(class string) Option {
	return func(r *Renderer) {
		r.cfg.class = class
	}
}

// WithStyle sets the page stylesheet used by RenderPage. s is a style name
// ("default"), a path to a CSS file, or CSS content.
func WithStyle(s string) Option {
	return func(r *Renderer) {
		r.cfg.styleInput = s
	}
}

// WithAssetPath sets a directory whose styles/ override the embedded ones.
func WithAssetPath(dir string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = dir
	}
}

// WithStylesheetLink adds a <link rel="stylesheet"> to pages built by
// RenderPage, such as the KaTeX font stylesheet.
func WithStylesheetLink(href string) Option {
	return func(r *Renderer) {
		r.cfg.stylesheetLink = href
	}
}

// WithWatch sets how often and how many times Watch polls the engine.
// Panics if attempts or interval is not positive (programmer error).
func WithWatch(attempts int, interval time.Duration) Option {
	if attempts <= 0 || interval <= 0 {
		panic("mdmath: WithWatch attempts and interval must be positive")
	}
	return func(r *Renderer) {
		r.cfg.watchAttempts = attempts
		r.cfg.watchInterval = interval
	}
}
