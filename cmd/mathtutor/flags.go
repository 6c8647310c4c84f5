package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	timeout time.Duration
	quiet   bool
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVarP(&c.config, "config", "c", "", "config file name or path")
	fs.DurationVarP(&c.timeout, "timeout", "t", 0, "overall timeout (e.g. 90s, 2m)")
	fs.BoolVarP(&c.quiet, "quiet", "q", false, "only print errors")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "print progress and model switches")
}

// renderFlags select the math engine and styling.
type renderFlags struct {
	engine    string
	highlight string
	style     string
	assetPath string
	class     string
}

func (r *renderFlags) register(fs *flag.FlagSet) {
	fs.StringVarP(&r.engine, "engine", "e", "", "formula engine: mathml, katex, none")
	fs.StringVar(&r.highlight, "highlight", "", "chroma style for code blocks (e.g. github)")
	fs.StringVarP(&r.style, "style", "s", "", "style name, CSS file, or CSS content")
	fs.StringVar(&r.assetPath, "asset-path", "", "directory overriding embedded styles and prompts")
	fs.StringVar(&r.class, "class", "", "extra class on the content container")
}

// outputFlags choose where results go.
type outputFlags struct {
	output string
	title  string
	page   bool
}

func (o *outputFlags) register(fs *flag.FlagSet) {
	fs.StringVarP(&o.output, "output", "o", "", "output file (.html or .pdf); default stdout")
	fs.StringVar(&o.title, "title", "", "page title")
	fs.BoolVar(&o.page, "page", false, "write a standalone HTML page instead of a fragment")
}

// newFlagSet creates a quiet flag set; errors are reported by the caller.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}
