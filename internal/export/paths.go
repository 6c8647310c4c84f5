package export

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// resolvedAttrs lists the element attributes that load local files when a
// page is printed.
var resolvedAttrs = map[string]string{
	"img":  "src",
	"link": "href",
}

// resolveLocalPaths points relative image and stylesheet references in
// page at files under baseDir. The page is printed from a temporary file,
// so a custom template's "logo.png" would otherwise not load. References
// that escape baseDir are left alone.
func resolveLocalPaths(page, baseDir string) (string, error) {
	if baseDir == "" {
		return page, nil
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: base directory: %v", ErrPDFGeneration, err)
	}

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("%w: parsing page: %v", ErrPDFGeneration, err)
	}

	changed := false
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if key, ok := resolvedAttrs[n.Data]; ok {
				for i, a := range n.Attr {
					if a.Key != key || !isLocalReference(a.Val) {
						continue
					}
					target := filepath.Join(absBase, filepath.FromSlash(a.Val))
					if !within(target, absBase) {
						continue
					}
					n.Attr[i].Val = (&url.URL{Scheme: "file", Path: filepath.ToSlash(target)}).String()
					changed = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !changed {
		return page, nil
	}
	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", fmt.Errorf("%w: rendering page: %v", ErrPDFGeneration, err)
	}
	return b.String(), nil
}

// isLocalReference reports whether ref is a relative file path.
func isLocalReference(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false
	}
	return !filepath.IsAbs(ref)
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
