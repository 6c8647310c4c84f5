package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	mdmath "github.com/alnah/go-mdmath"
)

// renderCmdFlags holds all flags for the render command.
type renderCmdFlags struct {
	common   commonFlags
	render   renderFlags
	out      outputFlags
	simulate int
	workers  int
}

func runRender(ctx context.Context, args []string, env *Environment) error {
	f := &renderCmdFlags{}
	fs := newFlagSet("render")
	f.common.register(fs)
	f.render.register(fs)
	f.out.register(fs)
	fs.IntVar(&f.simulate, "simulate", 0, "feed the input in chunks of N bytes through a stream")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for several files (0 = auto)")

	positional, err := parseFlags(fs, args, env, printRenderUsage)
	if err != nil {
		return err
	}
	if f.simulate < 0 {
		return fmt.Errorf("%w: --simulate must be >= 0, got %d", ErrUsage, f.simulate)
	}
	if err := validateWorkers(f.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(env, &f.common)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, f.common.timeout, 0)
	defer cancel()

	s, err := newRenderSetup(ctx, cfg, &f.render, env, logger(env, f.common.verbose))
	if err != nil {
		return err
	}
	defer s.Close()
	s.waitReady(ctx, f.common.quiet)

	if isBatch(positional) {
		if f.simulate > 0 {
			return fmt.Errorf("%w: --simulate takes a single input", ErrUsage)
		}
		return runRenderBatch(ctx, s, positional, f, cfg.Output.DefaultDir)
	}

	text, name, err := readInput(env.Stdin, positional)
	if err != nil {
		return err
	}

	var fragment string
	if f.simulate > 0 {
		logf := logger(env, f.common.verbose)
		fragment = simulateStream(s.renderer, s.class, text, f.simulate, func(i int, html string) {
			logf("chunk %d: %d bytes of HTML", i+1, len(html))
		})
	} else {
		fragment = s.renderer.RenderClass(text, s.class)
	}

	out := outputTarget{
		path:  f.out.output,
		title: firstNonEmpty(f.out.title, name),
		page:  f.out.page,
	}
	if name != "" {
		out.baseDir = filepath.Dir(positional[0])
	}
	return emit(ctx, s, out, fragment)
}

// isBatch reports whether args name several inputs or a directory.
func isBatch(args []string) bool {
	if len(args) > 1 {
		return true
	}
	if len(args) == 1 && args[0] != "-" {
		info, err := os.Stat(args[0])
		return err == nil && info.IsDir()
	}
	return false
}

// simulateStream feeds text to a Stream in chunks of about size bytes,
// never splitting a UTF-8 sequence, and returns the final HTML. progress
// sees the HTML after each chunk.
func simulateStream(r *mdmath.Renderer, class, text string, size int, progress func(i int, html string)) string {
	st := r.NewStream(class)
	chunks := chunkText(text, size)
	if len(chunks) == 0 {
		return st.Refresh()
	}
	for i, c := range chunks {
		html := st.Append(c)
		if progress != nil {
			progress(i, html)
		}
	}
	return st.HTML()
}

// chunkText splits text into pieces of at least size bytes, extended to
// the next rune boundary.
func chunkText(text string, size int) []string {
	if size <= 0 {
		size = 1
	}
	var chunks []string
	for len(text) > 0 {
		n := min(size, len(text))
		for n < len(text) && !utf8.RuneStart(text[n]) {
			n++
		}
		chunks = append(chunks, text[:n])
		text = text[n:]
	}
	return chunks
}
