package pipeline

import (
	"strings"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no escape needed",
			input:    ".math-display { text-align: center; }",
			expected: ".math-display { text-align: center; }",
		},
		{
			name:     "escapes style close",
			input:    "</style>",
			expected: `<\/style>`,
		},
		{
			name:     "multiple occurrences",
			input:    "</a></b>",
			expected: `<\/a><\/b>`,
		},
		{
			name:     "case variation",
			input:    "</STYLE>",
			expected: `<\/STYLE>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizeCSS(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "empty CSS returns HTML unchanged",
			html:     "<html><head></head><body>Xin chào</body></html>",
			css:      "",
			expected: "<html><head></head><body>Xin chào</body></html>",
		},
		{
			name:     "injects before </head>",
			html:     "<html><head></head><body>Xin chào</body></html>",
			css:      "body { color: red; }",
			expected: "<html><head><style>body { color: red; }</style></head><body>Xin chào</body></html>",
		},
		{
			name:     "injects before </HEAD> mixed case",
			html:     "<html><HEAD></HEAD><body>x</body></html>",
			css:      "p{}",
			expected: "<html><HEAD><style>p{}</style></HEAD><body>x</body></html>",
		},
		{
			name:     "injects after <body> with attributes",
			html:     `<html><body class="main">x</body></html>`,
			css:      "p{}",
			expected: `<html><body class="main"><style>p{}</style>x</body></html>`,
		},
		{
			name:     "prepends to bare fragment",
			html:     `<div class="md-content">x</div>`,
			css:      "p{}",
			expected: `<style>p{}</style><div class="md-content">x</div>`,
		},
		{
			name:     "sanitizes CSS with closing tags",
			html:     "<html><head></head><body></body></html>",
			css:      "</style><script>alert('xss')</script>",
			expected: `<html><head><style><\/style><script>alert('xss')<\/script></style></head><body></body></html>`,
		},
	}

	injector := &CSSInjection{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := injector.InjectCSS(tt.html, tt.css)
			if got != tt.expected {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWrapPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		title     string
		fragment  string
		wantTitle string
	}{
		{
			name:      "title escaped",
			title:     "Bài <1>",
			fragment:  "<p>x</p>",
			wantTitle: "<title>Bài &lt;1&gt;</title>",
		},
		{
			name:      "blank title uses default",
			title:     "  ",
			fragment:  "<p>x</p>",
			wantTitle: "<title>Document</title>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := WrapPage(tt.title, tt.fragment)
			if !strings.HasPrefix(got, "<!DOCTYPE html>") {
				t.Errorf("WrapPage() missing doctype: %q", got)
			}
			if !strings.Contains(got, tt.wantTitle) {
				t.Errorf("WrapPage() = %q, want title %q", got, tt.wantTitle)
			}
			if !strings.Contains(got, "<body>\n"+tt.fragment+"\n</body>") {
				t.Errorf("WrapPage() = %q, fragment not in body", got)
			}
		})
	}
}

func TestInjectStylesheetLink(t *testing.T) {
	t.Parallel()

	page := WrapPage("x", "<p>x</p>")

	got := InjectStylesheetLink(page, "https://cdn.example/katex.css?a=1&b=2")
	want := `<link rel="stylesheet" href="https://cdn.example/katex.css?a=1&amp;b=2">` + "\n</head>"
	if !strings.Contains(got, want) {
		t.Errorf("InjectStylesheetLink() = %q, want %q", got, want)
	}

	if got := InjectStylesheetLink(page, ""); got != page {
		t.Errorf("InjectStylesheetLink(empty href) changed the page")
	}
	if got := InjectStylesheetLink("<p>x</p>", "a.css"); got != "<p>x</p>" {
		t.Errorf("InjectStylesheetLink(fragment) = %q, want unchanged", got)
	}
}
