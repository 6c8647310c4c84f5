package lesson

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-mdmath/internal/assets"
)

// MathRenderer turns Markdown with LaTeX into trusted HTML.
type MathRenderer interface {
	Render(text string) string
}

// HTMLRenderer renders a Result through an html/template. Every free-text
// field of the plan goes through the math renderer; titles are escaped.
type HTMLRenderer struct {
	tmpl *template.Template
	math MathRenderer
}

type activityView struct {
	ID           string
	Name         string
	Objective    template.HTML
	Content      template.HTML
	Product      template.HTML
	Organization template.HTML
}

type planView struct {
	Title       string
	Grade       string
	Assessment  []template.HTML
	Suggestions []template.HTML
	Knowledge   template.HTML
	Competence  template.HTML
	Quality     template.HTML
	Equipment   template.HTML
	Activities  []activityView
}

// NewHTMLRenderer parses source as the plan template. An empty source
// selects the built-in template.
func NewHTMLRenderer(source string, math MathRenderer) (*HTMLRenderer, error) {
	if source == "" {
		var err error
		source, err = assets.LoadTemplate(assets.LessonPlanTemplateName)
		if err != nil {
			return nil, err
		}
	}
	tmpl, err := template.New("lessonplan").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return &HTMLRenderer{tmpl: tmpl, math: math}, nil
}

// Render returns the HTML fragment for res.
func (h *HTMLRenderer) Render(res *Result) (string, error) {
	p := res.Plan
	view := planView{
		Title:       p.Title,
		Grade:       p.Grade,
		Assessment:  h.renderAll(res.Analysis.CompetencyAssessment),
		Suggestions: h.renderAll(res.Analysis.Suggestions),
		Knowledge:   h.render(p.Objectives.Knowledge),
		Competence:  h.render(p.Objectives.Competence),
		Quality:     h.render(p.Objectives.Quality),
		Equipment:   h.render(p.Equipment),
	}
	for _, a := range p.Activities {
		view.Activities = append(view.Activities, activityView{
			ID:           a.ID,
			Name:         a.Name,
			Objective:    h.render(a.Objective),
			Content:      h.render(a.Content),
			Product:      h.render(a.Product),
			Organization: h.render(a.Organization),
		})
	}

	var b strings.Builder
	if err := h.tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return b.String(), nil
}

// render passes text through the math renderer. Its output escapes all
// literal text, so it is safe to mark as HTML.
func (h *HTMLRenderer) render(text string) template.HTML {
	return template.HTML(h.math.Render(text)) // #nosec G203 -- renderer escapes literal text
}

func (h *HTMLRenderer) renderAll(items []string) []template.HTML {
	out := make([]template.HTML, 0, len(items))
	for _, s := range items {
		out = append(out, h.render(s))
	}
	return out
}
