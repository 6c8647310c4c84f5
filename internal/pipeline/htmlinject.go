package pipeline

import (
	"fmt"
	"html"
	"strings"
)

// pageTemplate wraps a rendered fragment in a complete HTML5 document.
const pageTemplate = `<!DOCTYPE html>
<html lang="vi">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// defaultPageTitle is used when a page is built without a title.
const defaultPageTitle = "Document"

// WrapPage returns a standalone HTML5 document around fragment.
func WrapPage(title, fragment string) string {
	if strings.TrimSpace(title) == "" {
		title = defaultPageTitle
	}
	return fmt.Sprintf(pageTemplate, html.EscapeString(title), fragment)
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// InjectStylesheetLink adds a <link rel="stylesheet"> for href before
// </head>. Documents without a head are returned unchanged.
func InjectStylesheetLink(htmlContent, href string) string {
	if href == "" {
		return htmlContent
	}
	idx := strings.Index(strings.ToLower(htmlContent), "</head>")
	if idx == -1 {
		return htmlContent
	}
	link := `<link rel="stylesheet" href="` + html.EscapeString(href) + `">` + "\n"
	return htmlContent[:idx] + link + htmlContent[idx:]
}
