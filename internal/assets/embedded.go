package assets

import (
	"embed"
	"fmt"
	"path"
)

// Built-in stylesheet, lesson-plan template and the two model prompts.
//
//go:embed styles/*.css templates/*.html prompts/*.md
var builtin embed.FS

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct{}

func NewEmbeddedLoader() *EmbeddedLoader { return &EmbeddedLoader{} }

func (EmbeddedLoader) LoadStyle(name string) (string, error)    { return readBuiltin(styleKind, name) }
func (EmbeddedLoader) LoadTemplate(name string) (string, error) { return readBuiltin(templateKind, name) }
func (EmbeddedLoader) LoadPrompt(name string) (string, error)   { return readBuiltin(promptKind, name) }

func readBuiltin(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := builtin.ReadFile(path.Join(k.dir, name+k.ext))
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	return string(data), nil
}

var _ AssetLoader = EmbeddedLoader{}
