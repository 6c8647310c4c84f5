package mdmath

import (
	"strings"
	"sync"
)

// Stream renders text that arrives in chunks. Every Append re-renders the
// whole accumulated text, so constructs split across chunks (a formula, a
// fence) render correctly once complete. A Stream is safe for concurrent
// use; Refresh may be called from a Watch callback while chunks arrive.
type Stream struct {
	r     *Renderer
	class string

	mu   sync.Mutex
	text strings.Builder
	html string
}

// NewStream creates an empty Stream. class is added to the wrapper element
// like RenderClass.
func (r *Renderer) NewStream(class string) *Stream {
	return &Stream{r: r, class: class}
}

// Append adds chunk and returns the HTML for all text received so far.
func (s *Stream) Append(chunk string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text.WriteString(chunk)
	s.html = s.r.RenderClass(s.text.String(), s.class)
	return s.html
}

// Refresh re-renders the accumulated text without adding to it. Call it
// when the engine becomes ready to replace fallback formulas.
func (s *Stream) Refresh() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.html = s.r.RenderClass(s.text.String(), s.class)
	return s.html
}

// Text returns the raw text received so far.
func (s *Stream) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text.String()
}

// HTML returns the result of the last Append or Refresh.
func (s *Stream) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}

// Reset discards the accumulated text.
func (s *Stream) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text.Reset()
	s.html = ""
}
