package main

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-mdmath/internal/graph"
)

const defaultGraphTitle = "Đồ thị hàm số"

// graphCmdFlags holds all flags for the graph command. -c is the constant
// term here, so --config has no shorthand.
type graphCmdFlags struct {
	common  commonFlags
	render  renderFlags
	out     outputFlags
	kind    string
	a, b, c float64
	points  bool
	width   int
	height  int
}

func runGraph(ctx context.Context, args []string, env *Environment) error {
	f := &graphCmdFlags{}
	fs := newFlagSet("graph")
	fs.StringVar(&f.kind, "type", string(graph.Quadratic), "linear or quadratic")
	fs.Float64VarP(&f.a, "a", "a", 1, "coefficient a")
	fs.Float64VarP(&f.b, "b", "b", 0, "coefficient b")
	fs.Float64VarP(&f.c, "c", "c", 0, "coefficient c (quadratic only)")
	fs.BoolVar(&f.points, "points", false, "print the sampled points instead of drawing")
	fs.IntVar(&f.width, "width", graph.DefaultWidth, "SVG width")
	fs.IntVar(&f.height, "height", graph.DefaultHeight, "SVG height")
	f.render.register(fs)
	f.out.register(fs)
	fs.StringVar(&f.common.config, "config", "", "config file name or path")
	fs.DurationVarP(&f.common.timeout, "timeout", "t", 0, "overall timeout (e.g. 90s, 2m)")
	fs.BoolVarP(&f.common.quiet, "quiet", "q", false, "only print errors")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "print progress")

	positional, err := parseFlags(fs, args, env, printGraphUsage)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: graph takes no arguments, got %q", ErrUsage, positional[0])
	}
	if f.width <= 0 || f.height <= 0 {
		return fmt.Errorf("%w: --width and --height must be positive", ErrUsage)
	}

	kind, err := graph.ParseKind(f.kind)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	fn, err := graph.New(kind, f.a, f.b, f.c)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if f.points {
		return writeOutput(env.Stdout, f.out.output, pointTable(fn.Points()))
	}

	title := firstNonEmpty(f.out.title, defaultGraphTitle)
	opts := graph.SVGOptions{Width: f.width, Height: f.height, Title: fn.Formula()}
	if strings.EqualFold(filepath.Ext(f.out.output), ".svg") {
		return writeOutput(env.Stdout, f.out.output, graph.SVG(fn.Points(), opts)+"\n")
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

	out := outputTarget{path: f.out.output, title: title, page: f.out.page}
	return emit(ctx, s, out, graphFragment(s, fn, opts))
}

// graphFragment renders the formula through the math engine and places
// the figure inside the same content container.
func graphFragment(s *renderSetup, fn graph.Function, opts graph.SVGOptions) string {
	rendered := s.renderer.RenderClass("$$"+fn.Formula()+"$$", s.class)
	figure := graph.Figure(fn, html.EscapeString(fn.Kind.Label()), opts)
	return strings.TrimSuffix(rendered, "</div>") + figure + "\n</div>"
}

// pointTable lists samples as tab-separated x and y, one per line.
func pointTable(pts []graph.Point) string {
	var sb strings.Builder
	sb.WriteString("x\ty\n")
	for _, p := range pts {
		sb.WriteString(strconv.FormatFloat(p.X, 'f', -1, 64))
		sb.WriteByte('\t')
		sb.WriteString(strconv.FormatFloat(p.Y, 'f', -1, 64))
		sb.WriteByte('\n')
	}
	return sb.String()
}
