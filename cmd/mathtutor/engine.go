package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	mdmath "github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/browser"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/formula"
	"github.com/alnah/go-mdmath/internal/hints"
)

// renderSetup is a Renderer with the resources behind its engine. The
// browser is shared by KaTeX and PDF export and started on first use.
type renderSetup struct {
	renderer  *mdmath.Renderer
	engine    string
	class     string
	scriptURL string

	env *Environment
	cfg *config.Config

	mu      sync.Mutex
	browser *browser.Browser
	katex   *formula.KaTeX
}

// newRenderSetup builds the renderer selected by flags over cfg. A KaTeX
// engine starts loading in the background; callers that need it decide
// whether to wait.
func newRenderSetup(ctx context.Context, cfg *config.Config, rf *renderFlags, env *Environment, logf func(string, ...any)) (*renderSetup, error) {
	s := &renderSetup{
		engine:    strings.ToLower(firstNonEmpty(rf.engine, cfg.Render.Engine, config.EngineMathML)),
		class:     firstNonEmpty(rf.class, cfg.Render.Class),
		scriptURL: firstNonEmpty(cfg.KaTeX.ScriptURL, formula.DefaultKaTeXScriptURL),
		env:       env,
		cfg:       cfg,
	}

	opts := []mdmath.Option{
		mdmath.WithStyle(firstNonEmpty(rf.style, cfg.Render.Style)),
		mdmath.WithAssetPath(firstNonEmpty(rf.assetPath, cfg.Assets.BasePath)),
	}
	if hl := firstNonEmpty(rf.highlight, cfg.Render.Highlight); hl != "" {
		opts = append(opts, mdmath.WithHighlighting(hl))
	}
	if cfg.Watch.Attempts > 0 && cfg.WatchInterval() > 0 {
		opts = append(opts, mdmath.WithWatch(cfg.Watch.Attempts, cfg.WatchInterval()))
	}

	switch s.engine {
	case config.EngineMathML:
		opts = append(opts, mdmath.WithEngine(mdmath.MathMLEngine(nil)))
	case config.EngineNone:
		opts = append(opts, mdmath.WithEngine(mdmath.UnavailableEngine()))
	case config.EngineKaTeX:
		s.katex = formula.NewKaTeX(s.sharedBrowser(), s.scriptURL)
		s.katex.LoadInBackground(ctx, s.browserTimeout(), logf)
		opts = append(opts,
			mdmath.WithEngine(s.katex),
			mdmath.WithStylesheetLink(firstNonEmpty(cfg.KaTeX.StylesheetURL, formula.DefaultKaTeXStylesheetURL)),
		)
	default:
		return nil, fmt.Errorf("%w: unknown engine %q (mathml, katex, none)", ErrUsage, s.engine)
	}

	s.renderer = mdmath.NewRenderer(opts...)
	return s, nil
}

func (s *renderSetup) browserTimeout() time.Duration {
	if d := s.cfg.BrowserTimeout(); d > 0 {
		return d
	}
	return browser.DefaultTimeout
}

// sharedBrowser returns the browser, creating it on first call.
func (s *renderSetup) sharedBrowser() *browser.Browser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browser == nil {
		s.browser = s.env.NewBrowser(s.browserTimeout())
	}
	return s.browser
}

// waitReady blocks until the engine is ready or the watch gives up. A
// formula engine that never loads is not fatal: formulas stay as source.
func (s *renderSetup) waitReady(ctx context.Context, quiet bool) bool {
	if s.renderer.Watch(ctx, nil) {
		return true
	}
	if !quiet && s.engine != config.EngineNone {
		yellow := color.New(color.FgYellow)
		yellow.Fprintf(s.env.Stderr, "warning: %s engine not ready, formulas left as source", s.engine)
		fmt.Fprintln(s.env.Stderr, hints.ForKaTeXLoad(s.scriptURL))
	}
	return false
}

// Close releases the KaTeX page and the browser.
func (s *renderSetup) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.katex != nil {
		_ = s.katex.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
}
