package mdmath

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/formula"
	"github.com/alnah/go-mdmath/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.MathPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.MarkdownConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.FormulaEngine        = (*formula.Watcher)(nil)
)

// Renderer converts Markdown with LaTeX to HTML. It is safe for concurrent
// use; the only state shared between renders is the engine readiness flag.
type Renderer struct {
	cfg          rendererConfig
	engine       Engine
	watcher      *formula.Watcher
	normalizer   *pipeline.Normalizer
	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
	highlighter  *pipeline.CodeHighlighter
	cssInjector  pipeline.CSSInjector
}

// NewRenderer creates a Renderer. Without WithEngine formulas are rendered
// as MathML.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		normalizer:  &pipeline.Normalizer{},
		cssInjector: &pipeline.CSSInjection{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.engine == nil {
		r.engine = formula.NewMathML(nil)
	}

	r.watcher = formula.NewWatcher(r.engine, r.cfg.watchAttempts, r.cfg.watchInterval)
	r.preprocessor = &pipeline.MathPreprocessor{Normalizer: r.normalizer}
	if r.cfg.highlightStyle != "" {
		r.highlighter = pipeline.NewCodeHighlighter(r.cfg.highlightStyle)
	}
	r.converter = pipeline.NewMarkdownConverter(
		pipeline.NewInlineProcessor(r.normalizer, r.watcher),
		r.highlighter,
	)
	return r
}

// Render converts text to an HTML fragment wrapped in
// <div class="md-content">.
func (r *Renderer) Render(text string) string {
	return r.RenderClass(text, r.cfg.class)
}

// RenderClass is Render with a per-call class hint added to the wrapper.
// Render never fails; an internal panic degrades to the escaped text.
func (r *Renderer) RenderClass(text, class string) (out string) {
	open := `<div class="md-content">`
	if class = strings.TrimSpace(class); class != "" {
		open = `<div class="md-content ` + html.EscapeString(class) + `">`
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = open + `<p class="md-paragraph">` + html.EscapeString(text) + "</p>\n</div>"
		}
	}()

	body := r.converter.ToHTML(r.preprocessor.PreprocessMarkdown(text))
	return open + body + "</div>"
}

// Normalize wraps bare LaTeX in text with $ delimiters without rendering it.
func (r *Renderer) Normalize(text string) string {
	return r.normalizer.Normalize(text)
}

// Ready reports whether the engine can typeset formulas now.
func (r *Renderer) Ready() bool {
	return r.watcher.Ready()
}

// Watch polls the engine until it is ready, the configured attempts run out
// or ctx is done. onReady, which may be nil, is called once when the engine
// becomes ready. Watch reports whether the engine is ready.
func (r *Renderer) Watch(ctx context.Context, onReady func()) bool {
	return r.watcher.Watch(ctx, onReady)
}

// RenderPage renders text into a standalone HTML5 document with the
// configured stylesheet embedded.
func (r *Renderer) RenderPage(ctx context.Context, title, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.Page(ctx, title, r.Render(text))
}

// Page wraps already rendered HTML, such as a lesson plan or a chat
// transcript, into a standalone document styled like RenderPage output.
func (r *Renderer) Page(ctx context.Context, title, fragment string) (string, error) {
	css, err := r.Stylesheet()
	if err != nil {
		return "", err
	}

	page := pipeline.WrapPage(title, fragment)
	page = pipeline.InjectStylesheetLink(page, r.cfg.stylesheetLink)
	page = r.cssInjector.InjectCSS(page, css)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return page, nil
}

// Stylesheet returns the page CSS: the configured style followed by the
// code highlighting rules when highlighting is enabled.
func (r *Renderer) Stylesheet() (string, error) {
	css, err := r.resolveStyle()
	if err != nil {
		return "", err
	}
	if r.highlighter != nil {
		css += "\n" + r.highlighter.CSS()
	}
	return css, nil
}

// resolveStyle resolves the style input (name, path or CSS content) to CSS.
func (r *Renderer) resolveStyle() (string, error) {
	input := r.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrStyleRead, input, err)
		}
		return string(content), nil
	}

	if strings.Contains(input, "{") {
		return input, nil
	}

	resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	css, err := resolver.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrStyleNotFound, input, err)
	}
	return css, nil
}
