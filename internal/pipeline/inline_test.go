package pipeline

import (
	"errors"
	"strings"
	"testing"
)

// fakeEngine renders TeX as "[mode:tex]" so tests can see what reached it.
type fakeEngine struct {
	notReady bool
	panicOn  string
}

func (f *fakeEngine) Ready() bool { return !f.notReady }

func (f *fakeEngine) Render(tex string, display bool) (string, error) {
	if f.panicOn != "" && tex == f.panicOn {
		panic("engine crashed")
	}
	if strings.Contains(tex, `\notarealcmd`) {
		return "", errors.New(`undefined control sequence \notarealcmd`)
	}
	mode := "i"
	if display {
		mode = "d"
	}
	return "[" + mode + ":" + tex + "]", nil
}

func TestInlineProcessor_Process(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "Xin chào",
			expected: "Xin chào",
		},
		{
			name:     "html escaped",
			input:    `<script>alert("x")</script> & co`,
			expected: "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt; &amp; co",
		},
		{
			name:     "inline math",
			input:    "Tính $x^2+1$ khi x=2",
			expected: `Tính <span class="math-inline">[i:x^2+1]</span> khi x=2`,
		},
		{
			name:     "display math on one line",
			input:    "Ta có $$\\frac{a}{b}$$ nhé",
			expected: `Ta có <span class="math-display">[d:\frac{a}{b}]</span> nhé`,
		},
		{
			name:     "bare command normalized then rendered",
			input:    "Diện tích là S = \\pi r^2.",
			expected: `Diện tích là S = <span class="math-inline">[i:\pi r^2]</span>.`,
		},
		{
			name:     "bold",
			input:    "**Đáp án:** 5",
			expected: "<strong>Đáp án:</strong> 5",
		},
		{
			name:     "italic",
			input:    "chú ý *quan trọng* nhé",
			expected: "chú ý <em>quan trọng</em> nhé",
		},
		{
			name:     "lone asterisks with spaces stay literal",
			input:    "2 * 3 * 4",
			expected: "2 * 3 * 4",
		},
		{
			name:     "bold and italic together",
			input:    "**a** và *b*",
			expected: "<strong>a</strong> và <em>b</em>",
		},
		{
			name:     "code span escaped",
			input:    "dùng `a<b` ở đây",
			expected: `dùng <code class="md-code-inline">a&lt;b</code> ở đây`,
		},
		{
			name:     "asterisks inside code stay literal",
			input:    "`*x*` và *y*",
			expected: `<code class="md-code-inline">*x*</code> và <em>y</em>`,
		},
		{
			name:     "asterisks inside math not styled",
			input:    "$a*b*c$ và *x*",
			expected: `<span class="math-inline">[i:a*b*c]</span> và <em>x</em>`,
		},
		{
			name:     "escaped dollar shown literally",
			input:    "Giá \\$5",
			expected: "Giá $5",
		},
		{
			name:     "unterminated formula shown as text",
			input:    "Đang gõ $\\frac{1",
			expected: "Đang gõ $\\frac{1",
		},
		{
			name:     "private use runes pass through",
			input:    "a\uE0000\uE001b $x$",
			expected: "a\uE0000\uE001b <span class=\"math-inline\">[i:x]</span>",
		},
		{
			name:     "bold around a formula",
			input:    "**$x$ là nghiệm**",
			expected: `<strong><span class="math-inline">[i:x]</span> là nghiệm</strong>`,
		},
		{
			name:     "formula inside a code span",
			input:    "`a $x$ b`",
			expected: `<code class="md-code-inline">a <span class="math-inline">[i:x]</span> b</code>`,
		},
		{
			name:     "empty backtick pair is literal",
			input:    "``x`",
			expected: "`<code class=\"md-code-inline\">x</code>",
		},
		{
			name:     "line break before command",
			input:    "x = 1\\\\\\alpha",
			expected: `x = 1\\ <span class="math-inline">[i:\alpha]</span>`,
		},
		{
			name:     "escaped dollar after line break",
			input:    "a\\\\\\$b",
			expected: "a\\\\$b",
		},
	}

	p := NewInlineProcessor(&Normalizer{}, &fakeEngine{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := p.Process(tt.input)
			if got != tt.expected {
				t.Errorf("Process(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInlineProcessor_Fallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		engine   FormulaEngine
		input    string
		expected string
	}{
		{
			name:     "engine error degrades only that formula",
			engine:   &fakeEngine{},
			input:    "$\\notarealcmd{x}$ và $y$",
			expected: `<span class="math-inline math-fallback">$\notarealcmd{x}$</span> và <span class="math-inline">[i:y]</span>`,
		},
		{
			name:     "engine panic recovered",
			engine:   &fakeEngine{panicOn: "z"},
			input:    "$z$ rồi $w$",
			expected: `<span class="math-inline math-fallback">$z$</span> rồi <span class="math-inline">[i:w]</span>`,
		},
		{
			name:     "engine not ready",
			engine:   &fakeEngine{notReady: true},
			input:    "Tính $x<1$",
			expected: `Tính <span class="math-inline math-fallback">$x&lt;1$</span>`,
		},
		{
			name:     "nil engine",
			engine:   nil,
			input:    "$$x$$",
			expected: `<span class="math-display math-fallback">$$x$$</span>`,
		},
		{
			name:     "blank formula not sent to engine",
			engine:   &fakeEngine{},
			input:    "$ $",
			expected: `<span class="math-inline math-fallback">$ $</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewInlineProcessor(nil, tt.engine)
			got := p.Process(tt.input)
			if got != tt.expected {
				t.Errorf("Process(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEmphasize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"*a*", "<em>a</em>"},
		{"*a* *b*", "<em>a</em> <em>b</em>"},
		{"**", "**"},
		{"****", "****"},
		{"* a*", "* a*"},
		{"*a *", "*a *"},
		{"*unclosed", "*unclosed"},
		{"x*y*z", "x<em>y</em>z"},
		{"**a**", "<strong>a</strong>"},
		{"**a** và *b*", "<strong>a</strong> và <em>b</em>"},
		{"**a*b**", "**a*b**"},
		{"a < *b*", "a &lt; <em>b</em>"},
	}

	for _, tt := range tests {
		cs := appendText(nil, tt.input)
		if got := emphasize(cs).String(); got != tt.expected {
			t.Errorf("emphasize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
