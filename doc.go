// Package mdmath renders Markdown mixed with LaTeX to HTML.
//
// It targets text written by a language model for math lessons: formulas are
// often emitted without delimiters, and answers arrive as a stream of chunks.
//
// # Quick Start
//
//	r := mdmath.NewRenderer()
//	html := r.Render("Diện tích là S = \\pi r^2.")
//	// <div class="md-content"><p class="md-paragraph">Diện tích là S = <span class="math-inline"><math ...></span>.</p>\n</div>
//
// # Rendering Pipeline
//
//  1. Preprocessing: line endings, blank-line runs, and wrapping of bare
//     LaTeX commands such as \frac or C_16^8 in $...$
//  2. Block conversion: headings, lists, quotes, rules, fenced code and
//     $$ display blocks, one line at a time
//  3. Inline conversion: formulas, code spans, **bold** and *italic*
//
// Rendering never fails. A formula the engine cannot typeset, or any
// formula rendered before the engine is ready, is shown as its escaped
// source inside a span with the math-fallback class.
//
// # Formula Engines
//
// The default engine converts TeX to MathML in-process and is always ready.
// Engines that load asynchronously report Ready() == false until loaded;
// Watch polls them and calls back once so the caller can re-render:
//
//	r := mdmath.NewRenderer(mdmath.WithEngine(engine))
//	go r.Watch(ctx, func() { fmt.Print(stream.Refresh()) })
//
// # Streaming
//
// A Stream accumulates chunks and re-renders the whole text on every
// Append, so a formula split across chunks renders once it is complete:
//
//	s := r.NewStream("")
//	for chunk := range chunks {
//	    show(s.Append(chunk))
//	}
package mdmath
