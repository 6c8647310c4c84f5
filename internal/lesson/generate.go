package lesson

import (
	"context"

	"github.com/alnah/go-mdmath/internal/assets"
)

// jsonGenerator is the model call used to produce plans.
type jsonGenerator interface {
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

// Generator asks a model for lesson plans.
type Generator struct {
	client jsonGenerator
	system string
}

// NewGenerator creates a Generator. An empty system instruction selects the
// built-in lesson plan prompt.
func NewGenerator(client jsonGenerator, system string) (*Generator, error) {
	if system == "" {
		prompt, err := assets.LoadPrompt(assets.LessonPlanPromptName)
		if err != nil {
			return nil, err
		}
		system = prompt
	}
	return &Generator{client: client, system: system}, nil
}

// Generate produces the plan for in.
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	text, err := g.client.GenerateJSON(ctx, g.system, in.Prompt())
	if err != nil {
		return nil, err
	}
	return Parse(text)
}
