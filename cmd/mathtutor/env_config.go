package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-mdmath/internal/config"
)

// envConfig holds MATHTUTOR_* overrides, applied over the config file and
// under command-line flags.
type envConfig struct {
	Engine    string   // MATHTUTOR_ENGINE: mathml, katex, none
	Style     string   // MATHTUTOR_STYLE: style name, CSS path or CSS
	Highlight string   // MATHTUTOR_HIGHLIGHT: chroma style
	Models    []string // MATHTUTOR_MODELS: comma-separated fallback chain
	Timeout   string   // MATHTUTOR_TIMEOUT: tutor timeout
	AssetPath string   // MATHTUTOR_ASSETS: custom asset directory
	OutputDir string   // MATHTUTOR_OUTPUT_DIR: default output directory
}

// knownEnvVars lists valid MATHTUTOR_* variables.
var knownEnvVars = map[string]bool{
	config.EnvConfig:       true,
	"MATHTUTOR_ENGINE":     true,
	"MATHTUTOR_STYLE":      true,
	"MATHTUTOR_HIGHLIGHT":  true,
	"MATHTUTOR_MODELS":     true,
	"MATHTUTOR_TIMEOUT":    true,
	"MATHTUTOR_ASSETS":     true,
	"MATHTUTOR_OUTPUT_DIR": true,
}

func loadEnvConfig(getenv func(string) string) *envConfig {
	e := &envConfig{
		Engine:    getenv("MATHTUTOR_ENGINE"),
		Style:     getenv("MATHTUTOR_STYLE"),
		Highlight: getenv("MATHTUTOR_HIGHLIGHT"),
		Timeout:   getenv("MATHTUTOR_TIMEOUT"),
		AssetPath: getenv("MATHTUTOR_ASSETS"),
		OutputDir: getenv("MATHTUTOR_OUTPUT_DIR"),
	}
	e.Models = splitList(getenv("MATHTUTOR_MODELS"))
	return e
}

// applyEnvConfig copies set variables into cfg.
func applyEnvConfig(e *envConfig, cfg *config.Config) {
	setIfPresent(&cfg.Render.Engine, strings.ToLower(e.Engine))
	setIfPresent(&cfg.Render.Style, e.Style)
	setIfPresent(&cfg.Render.Highlight, e.Highlight)
	setIfPresent(&cfg.Tutor.Timeout, e.Timeout)
	setIfPresent(&cfg.Assets.BasePath, e.AssetPath)
	setIfPresent(&cfg.Output.DefaultDir, e.OutputDir)
	if len(e.Models) > 0 {
		cfg.Tutor.Models = e.Models
	}
}

// warnUnknownEnvVars reports MATHTUTOR_* variables that are probably typos.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "MATHTUTOR_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

func setIfPresent(field *string, value string) {
	if value != "" {
		*field = value
	}
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
