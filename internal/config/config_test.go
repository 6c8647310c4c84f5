package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Render.Engine != EngineMathML {
		t.Errorf("Render.Engine = %q, want %q", cfg.Render.Engine, EngineMathML)
	}
	if cfg.Render.Style != "default" {
		t.Errorf("Render.Style = %q, want default", cfg.Render.Style)
	}
	if cfg.Assets.BasePath != "" {
		t.Errorf("Assets.BasePath = %q, want empty", cfg.Assets.BasePath)
	}
	if cfg.WatchInterval() != 100*time.Millisecond {
		t.Errorf("WatchInterval() = %v, want 100ms", cfg.WatchInterval())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	if err := validateFieldLength("f", strings.Repeat("a", 10), 10); err != nil {
		t.Errorf("at limit: %v", err)
	}
	err := validateFieldLength("render.class", strings.Repeat("a", 11), 10)
	if !errors.Is(err, ErrFieldTooLong) {
		t.Fatalf("over limit error = %v, want ErrFieldTooLong", err)
	}
	if !strings.Contains(err.Error(), "render.class") {
		t.Errorf("error %q should name the field", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "engine case insensitive",
			mutate: func(c *Config) { c.Render.Engine = "KaTeX" },
		},
		{
			name:   "engine none",
			mutate: func(c *Config) { c.Render.Engine = EngineNone },
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.Render.Engine = "mathjax" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "class too long",
			mutate:  func(c *Config) { c.Render.Class = strings.Repeat("x", MaxClassLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "katex script not a URL",
			mutate:  func(c *Config) { c.KaTeX.ScriptURL = "katex.min.js" },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "katex https URL",
			mutate: func(c *Config) { c.KaTeX.ScriptURL = "https://example.com/katex.js" },
		},
		{
			name:    "too many models",
			mutate:  func(c *Config) { c.Tutor.Models = make([]string, MaxModels+1) },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "blank model",
			mutate:  func(c *Config) { c.Tutor.Models = []string{"gemini-2.5-flash", " "} },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "model too long",
			mutate:  func(c *Config) { c.Tutor.Models = []string{strings.Repeat("m", MaxModelLength+1)} },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "negative attempts",
			mutate:  func(c *Config) { c.Watch.Attempts = -1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "too many attempts",
			mutate:  func(c *Config) { c.Watch.Attempts = MaxWatchAttempts + 1 },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "bad interval",
			mutate:  func(c *Config) { c.Watch.Interval = "soon" },
			wantErr: ErrInvalidValue,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Tutor.Timeout = "0s" },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "date preset",
			mutate: func(c *Config) { c.Output.DateFormat = "long" },
		},
		{
			name:   "date disabled",
			mutate: func(c *Config) { c.Output.DateFormat = "none" },
		},
		{
			name:    "unclosed date bracket",
			mutate:  func(c *Config) { c.Output.DateFormat = "[ngày DD" },
			wantErr: ErrInvalidValue,
		},
		{
			name:   "empty durations allowed",
			mutate: func(c *Config) { c.Watch.Interval, c.Tutor.Timeout, c.Browser.Timeout = "", "", "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("file path layered over defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "c.yaml", `render:
  engine: KATEX
  highlight: github
tutor:
  models: [gemini-2.5-flash]
  timeout: 90s
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Render.Engine != EngineKaTeX {
			t.Errorf("Render.Engine = %q, want katex", cfg.Render.Engine)
		}
		if cfg.Render.Highlight != "github" {
			t.Errorf("Render.Highlight = %q, want github", cfg.Render.Highlight)
		}
		if cfg.Render.Style != "default" {
			t.Errorf("Render.Style = %q, want default kept", cfg.Render.Style)
		}
		if len(cfg.Tutor.Models) != 1 || cfg.Tutor.Models[0] != "gemini-2.5-flash" {
			t.Errorf("Tutor.Models = %v", cfg.Tutor.Models)
		}
		if cfg.TutorTimeout() != 90*time.Second {
			t.Errorf("TutorTimeout() = %v, want 90s", cfg.TutorTimeout())
		}
		if cfg.Watch.Attempts != 50 {
			t.Errorf("Watch.Attempts = %d, want default 50", cfg.Watch.Attempts)
		}
	})

	t.Run("empty file gives defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "empty.yaml", "")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Render.Engine != EngineMathML {
			t.Errorf("Render.Engine = %q, want mathml", cfg.Render.Engine)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		if _, err := LoadConfig("/nonexistent/path/config.yaml"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, t.TempDir(), "bad.yaml", "render: [unclosed")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, t.TempDir(), "unknown.yaml", "render:\n  engin: katex\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("validation error surfaces", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, t.TempDir(), "v.yaml", "render:\n  engine: mathjax\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

// Discover tests change the working directory and environment, so they do
// not run in parallel.
func TestDiscover(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	work := t.TempDir()
	t.Chdir(work)

	noEnv := func(string) string { return "" }

	t.Run("nothing found yields defaults", func(t *testing.T) {
		cfg, path, err := Discover("", noEnv)
		if err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
		if path != "" || cfg.Render.Engine != EngineMathML {
			t.Errorf("Discover() = %+v, %q, want defaults", cfg.Render, path)
		}
	})

	userDir, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	writeConfig(t, filepath.Join(userDir, "go-mdmath"), "mathtutor.yaml", "render:\n  engine: none\n")

	t.Run("user config dir", func(t *testing.T) {
		cfg, path, err := Discover("", noEnv)
		if err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
		if cfg.Render.Engine != EngineNone || !strings.Contains(path, "go-mdmath") {
			t.Errorf("Discover() = %q, %q, want user config", cfg.Render.Engine, path)
		}
	})

	writeConfig(t, work, "mathtutor.yml", "render:\n  engine: katex\n")

	t.Run("working directory before user dir", func(t *testing.T) {
		cfg, path, err := Discover("", noEnv)
		if err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
		if cfg.Render.Engine != EngineKaTeX || path != "mathtutor.yml" {
			t.Errorf("Discover() = %q, %q, want working directory config", cfg.Render.Engine, path)
		}
	})

	envPath := writeConfig(t, t.TempDir(), "env.yaml", "render:\n  class: from-env\n")

	t.Run("environment before search", func(t *testing.T) {
		getenv := func(k string) string {
			if k == EnvConfig {
				return envPath
			}
			return ""
		}
		cfg, path, err := Discover("", getenv)
		if err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
		if cfg.Render.Class != "from-env" || path != envPath {
			t.Errorf("Discover() = %q, %q, want env config", cfg.Render.Class, path)
		}
	})

	t.Run("explicit missing is an error", func(t *testing.T) {
		_, _, err := Discover(filepath.Join(work, "missing.yaml"), noEnv)
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Discover() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("explicit name searched", func(t *testing.T) {
		writeConfig(t, work, "school.yaml", "render:\n  highlight: monokai\n")
		cfg, _, err := Discover("school", noEnv)
		if err != nil {
			t.Fatalf("Discover() error = %v", err)
		}
		if cfg.Render.Highlight != "monokai" {
			t.Errorf("Render.Highlight = %q, want monokai", cfg.Render.Highlight)
		}
	})
}
