// Package formula provides the engines that turn TeX source into HTML and
// tracks whether an engine has finished loading.
package formula

import "errors"

// Sentinel errors for formula rendering.
var (
	ErrNotReady = errors.New("formula engine not ready")
	ErrRender   = errors.New("formula rendering failed")
)

// Engine renders a single TeX expression. display selects display style
// (block, centered) over text style. Ready reports whether Render can be
// called; it must be cheap and safe to call from any goroutine.
type Engine interface {
	Render(tex string, display bool) (string, error)
	Ready() bool
}

// Compile-time interface checks
var (
	_ Engine = (*MathML)(nil)
	_ Engine = (*KaTeX)(nil)
	_ Engine = Unavailable{}
	_ Engine = (*Watcher)(nil)
)

// Unavailable is an engine that never loads. Every formula falls back to its
// escaped source.
type Unavailable struct{}

// Render always fails with ErrNotReady.
func (Unavailable) Render(string, bool) (string, error) { return "", ErrNotReady }

// Ready always reports false.
func (Unavailable) Ready() bool { return false }
