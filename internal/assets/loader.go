package assets

// AssetLoader defines the contract for loading stylesheets, HTML templates
// and model prompts by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)

	// LoadPrompt loads a system prompt by name (without .md extension).
	// Returns ErrPromptNotFound if the prompt doesn't exist.
	LoadPrompt(name string) (string, error)
}

// Asset kinds: directory, file extension and not-found error.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
	promptKind   = kind{dir: "prompts", ext: ".md", notFound: ErrPromptNotFound}
)
