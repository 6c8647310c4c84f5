package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/lesson"
)

// Lesson output formats.
const (
	formatHTML = "html"
	formatText = "text"
	formatJSON = "json"
	formatPDF  = "pdf"
)

// lessonFlags holds all flags for the lesson command.
type lessonFlags struct {
	common commonFlags
	render renderFlags
	out    outputFlags
	input  lesson.Input
	format string
	models []string
}

func runLesson(ctx context.Context, args []string, env *Environment) error {
	f := &lessonFlags{}
	fs := newFlagSet("lesson")
	f.common.register(fs)
	f.render.register(fs)
	f.out.register(fs)
	fs.StringVar(&f.input.Topic, "topic", "", "lesson topic, e.g. \"Phương trình bậc hai\"")
	fs.StringVarP(&f.input.Grade, "grade", "g", "", "grade (required), e.g. 10")
	fs.StringVar(&f.input.Subject, "subject", "", "subject (default "+lesson.DefaultSubject+")")
	fs.StringVar(&f.input.Duration, "duration", "", "duration (default "+lesson.DefaultDuration+")")
	fs.StringVar(&f.input.Objectives, "objectives", "", "expected outcomes to analyse")
	fs.StringVarP(&f.format, "format", "f", "", "output format: html, text, json, pdf (default from --output)")
	fs.StringSliceVarP(&f.models, "models", "m", nil, "model fallback chain, best first")

	positional, err := parseFlags(fs, args, env, printLessonUsage)
	if err != nil {
		return err
	}
	if f.input.Topic == "" && len(positional) > 0 {
		f.input.Topic = strings.Join(positional, " ")
	}
	if err := f.input.Validate(); err != nil {
		return fmt.Errorf("%w (use --grade)", err)
	}
	format, err := resolveLessonFormat(f.format, f.out.output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(env, &f.common)
	if err != nil {
		return err
	}
	logf := logger(env, f.common.verbose)
	resolver, err := assets.NewAssetResolver(firstNonEmpty(f.render.assetPath, cfg.Assets.BasePath))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	system, err := resolver.LoadPrompt(assets.LessonPlanPromptName)
	if err != nil {
		return err
	}

	genCtx, cancel := withTimeout(ctx, f.common.timeout, cfg.TutorTimeout())
	defer cancel()

	if !f.common.quiet {
		fmt.Fprintln(env.Stderr, "Đang soạn giáo án...")
	}
	var res *lesson.Result
	err = withClient(genCtx, env, cfg, firstNonEmptyList(f.models, cfg.Tutor.Models), logf, func(client ChatClient) (bool, error) {
		gen, err := lesson.NewGenerator(client, system)
		if err != nil {
			return false, err
		}
		res, err = gen.Generate(genCtx, f.input)
		return false, err
	})
	if err != nil {
		return err
	}

	switch format {
	case formatText:
		return writeOutput(env.Stdout, f.out.output, res.Plan.Text())
	case formatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: %v", lesson.ErrParse, err)
		}
		return writeOutput(env.Stdout, f.out.output, string(data)+"\n")
	}

	s, err := newRenderSetup(ctx, cfg, &f.render, env, logf)
	if err != nil {
		return err
	}
	defer s.Close()
	s.waitReady(ctx, f.common.quiet)

	tmpl, err := resolver.LoadTemplate(assets.LessonPlanTemplateName)
	if err != nil {
		return err
	}
	hr, err := lesson.NewHTMLRenderer(tmpl, s.renderer)
	if err != nil {
		return err
	}
	fragment, err := hr.Render(res)
	if err != nil {
		return err
	}

	out := outputTarget{
		path:  f.out.output,
		title: firstNonEmpty(f.out.title, "Kế hoạch bài dạy: "+res.Plan.Title),
		page:  f.out.page || f.out.output != "",
	}
	if assetPath := firstNonEmpty(f.render.assetPath, cfg.Assets.BasePath); assetPath != "" {
		out.baseDir = filepath.Join(assetPath, "templates")
	}
	return emit(ctx, s, out, fragment)
}

// resolveLessonFormat validates format, inferring it from the output
// extension when empty.
func resolveLessonFormat(format, output string) (string, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".pdf":
			return formatPDF, nil
		case ".json":
			return formatJSON, nil
		case ".txt":
			return formatText, nil
		}
		return formatHTML, nil
	}

	switch format = strings.ToLower(format); format {
	case formatHTML, formatText, formatJSON:
		return format, nil
	case formatPDF:
		if !isPDF(output) {
			return "", fmt.Errorf("%w: --format pdf needs --output file.pdf", ErrUsage)
		}
		return format, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (html, text, json, pdf)", ErrUsage, format)
}
