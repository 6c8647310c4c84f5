package mdmath

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// stubEngine renders TeX as "[mode:tex]" and rejects \notarealcmd.
type stubEngine struct {
	notReady atomic.Bool
}

func (e *stubEngine) Ready() bool { return !e.notReady.Load() }

func (e *stubEngine) Render(tex string, display bool) (string, error) {
	if strings.Contains(tex, `\notarealcmd`) {
		return "", errors.New(`undefined control sequence \notarealcmd`)
	}
	if display {
		return "[d:" + tex + "]", nil
	}
	return "[i:" + tex + "]", nil
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "delimited formula",
			input: "Tính $x^2+1$ khi x=2",
			want:  `<div class="md-content"><p class="md-paragraph">Tính <span class="math-inline">[i:x^2+1]</span> khi x=2</p>` + "\n</div>",
		},
		{
			name:  "bare formula is wrapped",
			input: `Diện tích là S = \pi r^2.`,
			want:  `<div class="md-content"><p class="md-paragraph">Diện tích là S = <span class="math-inline">[i:\pi r^2]</span>.</p>` + "\n</div>",
		},
		{
			name:  "fenced code stays literal",
			input: "```\n**not bold**\n```",
			want:  `<div class="md-content"><pre class="md-code"><code>**not bold**</code></pre>` + "\n</div>",
		},
		{
			name:  "unknown command falls back",
			input: `$\notarealcmd{x}$`,
			want:  `<div class="md-content"><p class="md-paragraph"><span class="math-inline math-fallback">$\notarealcmd{x}$</span></p>` + "\n</div>",
		},
		{
			name:  "combinatorics",
			input: "Có C_16^8 cách",
			want:  `<div class="md-content"><p class="md-paragraph">Có <span class="math-inline">[i:C_{16}^{8}]</span> cách</p>` + "\n</div>",
		},
		{
			name:  "empty text",
			input: "",
			want:  `<div class="md-content"></div>`,
		},
		{
			name:  "crlf input",
			input: "# Bài 1\r\nGiải",
			want:  `<div class="md-content"><h1 class="md-heading md-h1">Bài 1</h1>` + "\n" + `<p class="md-paragraph">Giải</p>` + "\n</div>",
		},
	}

	r := NewRenderer(WithEngine(&stubEngine{}))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := r.Render(tt.input); got != tt.want {
				t.Errorf("Render(%q) =\n%q\nwant\n%q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderer_RenderClass(t *testing.T) {
	t.Parallel()

	r := NewRenderer(WithEngine(&stubEngine{}), WithClass("chat"))

	if got := r.Render("x"); !strings.HasPrefix(got, `<div class="md-content chat">`) {
		t.Errorf("Render() = %q, want configured class", got)
	}
	if got := r.RenderClass("x", `a"b`); !strings.HasPrefix(got, `<div class="md-content a&#34;b">`) {
		t.Errorf("RenderClass() = %q, want escaped class", got)
	}
	if got := r.RenderClass("x", "  "); !strings.HasPrefix(got, `<div class="md-content">`) {
		t.Errorf("RenderClass() = %q, want no extra class", got)
	}
}

func TestRenderer_DefaultEngineIsMathML(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	if !r.Ready() {
		t.Fatal("Ready() = false, want true for the default engine")
	}
	if got := r.Render("$x^2$"); !strings.Contains(got, "<math") {
		t.Errorf("Render() = %q, want MathML", got)
	}
}

func TestRenderer_Normalize(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	got := r.Normalize(`Diện tích là S = \pi r^2.`)
	want := `Diện tích là S = $\pi r^2$.`
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestRenderer_Watch(t *testing.T) {
	t.Parallel()

	engine := &stubEngine{}
	engine.notReady.Store(true)
	r := NewRenderer(WithEngine(engine), WithWatch(20, time.Millisecond))

	s := r.NewStream("")
	before := s.Append("Tính $x^2$")
	if !strings.Contains(before, "math-fallback") {
		t.Fatalf("Append() = %q, want fallback before the engine is ready", before)
	}

	engine.notReady.Store(false)

	var refreshed string
	if !r.Watch(context.Background(), func() { refreshed = s.Refresh() }) {
		t.Fatal("Watch() = false, want true")
	}
	if !strings.Contains(refreshed, `<span class="math-inline">[i:x^2]</span>`) {
		t.Errorf("Refresh() = %q, want rendered formula", refreshed)
	}
}

func TestRenderer_WatchNeverReady(t *testing.T) {
	t.Parallel()

	r := NewRenderer(WithEngine(UnavailableEngine()), WithWatch(3, time.Millisecond))

	called := false
	if r.Watch(context.Background(), func() { called = true }) {
		t.Error("Watch() = true, want false")
	}
	if called {
		t.Error("onReady called for an engine that never loaded")
	}
	if got := r.Render("$x$"); !strings.Contains(got, "math-fallback") {
		t.Errorf("Render() = %q, want fallback", got)
	}
}

func TestWithWatch_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithWatch(0, 0) did not panic")
		}
	}()
	WithWatch(0, 0)
}

func TestWithEngine_Nil(t *testing.T) {
	t.Parallel()

	r := NewRenderer(WithEngine(nil))
	if r.Ready() {
		t.Error("Ready() = true, want false for a nil engine")
	}
}
