package formula

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"

	"github.com/alnah/go-mdmath/internal/browser"
)

// Default KaTeX distribution.
const (
	DefaultKaTeXScriptURL     = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.js"
	DefaultKaTeXStylesheetURL = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/katex.min.css"
)

const (
	katexCheckJS  = `() => typeof window.katex !== "undefined"`
	katexRenderJS = `(tex, display) => window.katex.renderToString(tex, {displayMode: display, throwOnError: true})`
)

// KaTeX renders TeX by calling katex.renderToString inside a headless
// browser page. The script is fetched by Load, which may run in the
// background; until it succeeds the engine reports not ready.
type KaTeX struct {
	browser   *browser.Browser
	scriptURL string

	ready atomic.Bool

	mu   sync.Mutex
	page *rod.Page
}

// NewKaTeX creates a KaTeX engine backed by b. An empty scriptURL selects
// DefaultKaTeXScriptURL.
func NewKaTeX(b *browser.Browser, scriptURL string) *KaTeX {
	if scriptURL == "" {
		scriptURL = DefaultKaTeXScriptURL
	}
	return &KaTeX{browser: b, scriptURL: scriptURL}
}

// Load opens the engine page and injects the KaTeX script. Calling Load on
// a loaded engine is a no-op.
func (k *KaTeX) Load(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.ready.Load() {
		return nil
	}

	if k.page == nil {
		page, err := k.browser.Open(ctx, "about:blank")
		if err != nil {
			return err
		}
		k.page = page
	}

	page := k.page.Context(ctx)
	if err := page.AddScriptTag(k.scriptURL, ""); err != nil {
		return fmt.Errorf("%w: loading %s: %v", ErrNotReady, k.scriptURL, err)
	}

	res, err := page.Eval(katexCheckJS)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("%w: katex global missing after load", ErrNotReady)
	}

	k.ready.Store(true)
	return nil
}

// Ready reports whether Load has completed.
func (k *KaTeX) Ready() bool {
	return k.ready.Load()
}

// Render returns KaTeX HTML for tex. KaTeX parse errors are returned as
// ErrRender.
func (k *KaTeX) Render(tex string, display bool) (string, error) {
	if !k.ready.Load() {
		return "", ErrNotReady
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	// Close may have run since the check above.
	if k.page == nil || !k.ready.Load() {
		return "", ErrNotReady
	}

	res, err := k.page.Timeout(k.browser.Timeout()).Eval(katexRenderJS, tex, display)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return res.Value.Str(), nil
}

// Close releases the engine page. The shared browser stays open.
func (k *KaTeX) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.ready.Store(false)
	if k.page == nil {
		return nil
	}
	err := k.page.Close()
	k.page = nil
	return err
}

// LoadInBackground starts Load on a new goroutine and returns at once.
// Failures are passed to logf, which may be nil.
func (k *KaTeX) LoadInBackground(ctx context.Context, timeout time.Duration, logf func(string, ...any)) {
	go func() {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := k.Load(ctx); err != nil && logf != nil {
			logf("katex: %v", err)
		}
	}()
}
