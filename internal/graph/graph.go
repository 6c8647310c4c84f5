// Package graph samples linear and quadratic functions over [-10, 10] and
// draws them as inline SVG that can sit inside a rendered page or PDF.
package graph

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sentinel errors for graph input.
var (
	ErrInvalidKind        = errors.New("invalid graph type")
	ErrInvalidCoefficient = errors.New("invalid coefficient")
)

// Kind selects the function family.
type Kind string

// Supported kinds.
const (
	Linear    Kind = "linear"
	Quadratic Kind = "quadratic"
)

// Sampling range and step on the x axis.
const (
	XMin = -10.0
	XMax = 10.0
	Step = 0.5
)

// ParseKind parses a kind name. An empty name selects Quadratic.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Quadratic):
		return Quadratic, nil
	case string(Linear):
		return Linear, nil
	default:
		return "", fmt.Errorf("%w: %q (linear or quadratic)", ErrInvalidKind, s)
	}
}

// Label is the Vietnamese name shown next to the graph.
func (k Kind) Label() string {
	if k == Linear {
		return "Bậc nhất (y = ax + b)"
	}
	return "Bậc hai (y = ax² + bx + c)"
}

// Point is one sample of the function.
type Point struct {
	X, Y float64
}

// Function is y = ax + b for Linear and y = ax² + bx + c for Quadratic.
// C is ignored by Linear.
type Function struct {
	Kind    Kind
	A, B, C float64
}

// New returns a validated Function.
func New(kind Kind, a, b, c float64) (Function, error) {
	if kind != Linear && kind != Quadratic {
		return Function{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	for i, v := range []float64{a, b, c} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Function{}, fmt.Errorf("%w: %c = %v", ErrInvalidCoefficient, 'a'+i, v)
		}
	}
	f := Function{Kind: kind, A: a, B: b, C: c}
	if lo, hi := yRange(f.Points()); math.IsInf(hi-lo, 0) {
		return Function{}, fmt.Errorf("%w: y overflows on [%v, %v]", ErrInvalidCoefficient, XMin, XMax)
	}
	return f, nil
}

// Eval returns f(x).
func (f Function) Eval(x float64) float64 {
	if f.Kind == Linear {
		return f.A*x + f.B
	}
	return f.A*x*x + f.B*x + f.C
}

// Points samples f from XMin to XMax every Step, both ends included.
func (f Function) Points() []Point {
	n := int(math.Round((XMax-XMin)/Step)) + 1
	pts := make([]Point, n)
	for i := range pts {
		// Multiply instead of accumulating so x stays exact on the grid.
		x := XMin + float64(i)*Step
		pts[i] = Point{X: x, Y: f.Eval(x)}
	}
	return pts
}

// Formula returns f as LaTeX, e.g. "y = 2x^2 - x + 3".
func (f Function) Formula() string {
	type term struct {
		coef float64
		sym  string
	}
	terms := []term{{f.A, "x^2"}, {f.B, "x"}, {f.C, ""}}
	if f.Kind == Linear {
		terms = []term{{f.A, "x"}, {f.B, ""}}
	}

	var sb strings.Builder
	sb.WriteString("y =")
	first := true
	for _, t := range terms {
		if t.coef == 0 {
			continue
		}
		abs := math.Abs(t.coef)
		switch {
		case first && t.coef < 0:
			sb.WriteString(" -")
		case !first && t.coef < 0:
			sb.WriteString(" - ")
		case !first:
			sb.WriteString(" + ")
		default:
			sb.WriteByte(' ')
		}
		if abs != 1 || t.sym == "" {
			sb.WriteString(formatNumber(abs))
		}
		sb.WriteString(t.sym)
		first = false
	}
	if first {
		sb.WriteString(" 0")
	}
	return sb.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
