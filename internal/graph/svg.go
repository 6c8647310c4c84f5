package graph

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

// DefaultStroke is the curve color.
const DefaultStroke = "#3b82f6"

// Default canvas size in SVG user units.
const (
	DefaultWidth  = 600
	DefaultHeight = 400
)

const (
	margin     = 36
	yGridLines = 6
	xTickEvery = 2.0
)

// SVGOptions control the drawing. Zero values take the defaults.
type SVGOptions struct {
	Width  int
	Height int
	Stroke string
	Title  string // accessible name, escaped on output
}

// plot maps function coordinates onto the canvas.
type plot struct {
	w, h       float64
	yMin, yMax float64
}

func (p plot) px(x float64) float64 {
	return margin + (x-XMin)/(XMax-XMin)*(p.w-2*margin)
}

func (p plot) py(y float64) float64 {
	return p.h - margin - (y-p.yMin)/(p.yMax-p.yMin)*(p.h-2*margin)
}

// yRange returns the padded y extent of pts. A flat curve gets one unit
// either side.
func yRange(pts []Point) (lo, hi float64) {
	if len(pts) == 0 {
		return -1, 1
	}
	lo, hi = pts[0].Y, pts[0].Y
	for _, pt := range pts[1:] {
		lo = math.Min(lo, pt.Y)
		hi = math.Max(hi, pt.Y)
	}
	if hi-lo == 0 {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// SVG draws pts as a polyline over a dashed grid with the x = 0 and
// y = 0 axes. The result is a standalone <svg> element.
func SVG(pts []Point, opts SVGOptions) string {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Stroke == "" {
		opts.Stroke = DefaultStroke
	}

	p := plot{w: float64(opts.Width), h: float64(opts.Height)}
	p.yMin, p.yMax = yRange(pts)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" class="graph-plot" viewBox="0 0 %d %d" width="%d" height="%d" role="img"`,
		opts.Width, opts.Height, opts.Width, opts.Height)
	if opts.Title != "" {
		fmt.Fprintf(&sb, ` aria-label="%s">`+"\n", html.EscapeString(opts.Title))
		fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(opts.Title))
	} else {
		sb.WriteString(">\n")
	}

	left, right := p.px(XMin), p.px(XMax)
	top, bottom := p.py(p.yMax), p.py(p.yMin)

	sb.WriteString(`<g class="graph-grid" stroke="#e5e7eb" stroke-dasharray="3 3">` + "\n")
	for x := XMin; x <= XMax; x += xTickEvery {
		writeLine(&sb, p.px(x), top, p.px(x), bottom)
	}
	yStep := (p.yMax - p.yMin) / yGridLines
	for i := 0; i <= yGridLines; i++ {
		y := p.py(p.yMin + float64(i)*yStep)
		writeLine(&sb, left, y, right, y)
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g class="graph-axes" stroke="#6b7280" stroke-width="1">` + "\n")
	writeLine(&sb, p.px(0), top, p.px(0), bottom)
	if p.yMin <= 0 && p.yMax >= 0 {
		writeLine(&sb, left, p.py(0), right, p.py(0))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<g class="graph-ticks" font-size="11" fill="#6b7280" font-family="sans-serif">` + "\n")
	for x := XMin; x <= XMax; x += xTickEvery {
		fmt.Fprintf(&sb, `<text x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
			coord(p.px(x)), coord(bottom+16), formatNumber(x))
	}
	for i := 0; i <= yGridLines; i++ {
		v := p.yMin + float64(i)*yStep
		fmt.Fprintf(&sb, `<text x="%s" y="%s" text-anchor="end">%s</text>`+"\n",
			coord(left-6), coord(p.py(v)+4), strconv.FormatFloat(v, 'g', 3, 64))
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<polyline fill="none" stroke="%s" stroke-width="2" points="`, html.EscapeString(opts.Stroke))
	for i, pt := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(coord(p.px(pt.X)))
		sb.WriteByte(',')
		sb.WriteString(coord(p.py(pt.Y)))
	}
	sb.WriteString(`"/>` + "\n</svg>")
	return sb.String()
}

// Figure wraps the plot of f and a caption into a <figure class="graph">
// ready to drop into an HTML fragment. caption is inserted as HTML so a
// rendered formula can be used.
func Figure(f Function, caption string, opts SVGOptions) string {
	if opts.Title == "" {
		opts.Title = f.Formula()
	}
	var sb strings.Builder
	sb.WriteString(`<figure class="graph">` + "\n")
	sb.WriteString(SVG(f.Points(), opts))
	if caption != "" {
		fmt.Fprintf(&sb, "\n<figcaption>%s</figcaption>", caption)
	}
	sb.WriteString("\n</figure>")
	return sb.String()
}

func writeLine(sb *strings.Builder, x1, y1, x2, y2 float64) {
	fmt.Fprintf(sb, `<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", coord(x1), coord(y1), coord(x2), coord(y2))
}

// coord rounds to two decimals and drops trailing zeros.
func coord(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
