// Package config loads the mathtutor YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdmath/internal/dateutil"
	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// EnvConfig names the environment variable holding a config path.
const EnvConfig = "MATHTUTOR_CONFIG"

// DefaultName is the config file name searched without an explicit path.
const DefaultName = "mathtutor"

// Field limits.
const (
	MaxURLLength      = 2048
	MaxPathLength     = 4096
	MaxClassLength    = 100
	MaxStyleLength    = 100
	MaxModelLength    = 100
	MaxModels         = 10
	MaxWatchAttempts  = 1000
	MaxDurationLength = 20
)

// Engine names accepted by render.engine.
const (
	EngineMathML = "mathml"
	EngineKaTeX  = "katex"
	EngineNone   = "none"
)

// Config holds the CLI configuration. Zero values mean "use the default".
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	KaTeX   KaTeXConfig   `yaml:"katex"`
	Watch   WatchConfig   `yaml:"watch"`
	Tutor   TutorConfig   `yaml:"tutor"`
	Keys    KeysConfig    `yaml:"keys"`
	Assets  AssetsConfig  `yaml:"assets"`
	Output  OutputConfig  `yaml:"output"`
	Browser BrowserConfig `yaml:"browser"`
}

// RenderConfig controls the Markdown/LaTeX renderer.
type RenderConfig struct {
	Engine    string `yaml:"engine"`    // mathml, katex or none
	Class     string `yaml:"class"`     // extra container class
	Highlight string `yaml:"highlight"` // chroma style, empty disables
	Style     string `yaml:"style"`     // style name, CSS file or inline CSS
}

// KaTeXConfig points the KaTeX engine at its distribution.
type KaTeXConfig struct {
	ScriptURL     string `yaml:"scriptURL"`
	StylesheetURL string `yaml:"stylesheetURL"`
}

// WatchConfig bounds the engine readiness poll.
type WatchConfig struct {
	Attempts int    `yaml:"attempts"`
	Interval string `yaml:"interval"` // Go duration, e.g. "100ms"
}

// TutorConfig selects the Gemini models, in fallback order.
type TutorConfig struct {
	Models  []string `yaml:"models"`
	Timeout string   `yaml:"timeout"`
}

// KeysConfig locates API keys.
type KeysConfig struct {
	StorePath string `yaml:"storePath"`
	EnvFile   string `yaml:"envFile"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// OutputConfig defines where generated files go.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"`
	DateFormat string `yaml:"dateFormat"` // PDF footer date: preset, layout or "none"
}

// BrowserConfig bounds headless Chrome work (KaTeX, PDF export).
type BrowserConfig struct {
	Timeout string `yaml:"timeout"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Render:  RenderConfig{Engine: EngineMathML, Style: "default"},
		Watch:   WatchConfig{Attempts: 50, Interval: "100ms"},
		Tutor:   TutorConfig{Timeout: "2m"},
		Keys:    KeysConfig{EnvFile: ".env"},
		Output:  OutputConfig{DateFormat: dateutil.DefaultDateFormat},
		Browser: BrowserConfig{Timeout: "30s"},
	}
}

// Validate checks enumerations, durations and field lengths. LoadConfig
// calls it; callers building a Config by hand should too.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Render.Engine) {
	case "", EngineMathML, EngineKaTeX, EngineNone:
	default:
		return fmt.Errorf("%w: render.engine %q (must be mathml, katex, or none)", ErrInvalidValue, c.Render.Engine)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"render.class", c.Render.Class, MaxClassLength},
		{"render.highlight", c.Render.Highlight, MaxStyleLength},
		{"render.style", c.Render.Style, MaxPathLength},
		{"katex.scriptURL", c.KaTeX.ScriptURL, MaxURLLength},
		{"katex.stylesheetURL", c.KaTeX.StylesheetURL, MaxURLLength},
		{"watch.interval", c.Watch.Interval, MaxDurationLength},
		{"tutor.timeout", c.Tutor.Timeout, MaxDurationLength},
		{"keys.storePath", c.Keys.StorePath, MaxPathLength},
		{"keys.envFile", c.Keys.EnvFile, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.dateFormat", c.Output.DateFormat, dateutil.MaxDateFormatLength},
		{"browser.timeout", c.Browser.Timeout, MaxDurationLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	for _, u := range []struct{ name, value string }{
		{"katex.scriptURL", c.KaTeX.ScriptURL},
		{"katex.stylesheetURL", c.KaTeX.StylesheetURL},
	} {
		if u.value != "" && !fileutil.IsURL(u.value) {
			return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidValue, u.name, u.value)
		}
	}

	if len(c.Tutor.Models) > MaxModels {
		return fmt.Errorf("%w: tutor.models has %d entries (max %d)", ErrInvalidValue, len(c.Tutor.Models), MaxModels)
	}
	for i, m := range c.Tutor.Models {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("%w: tutor.models[%d] is empty", ErrInvalidValue, i)
		}
		if err := validateFieldLength(fmt.Sprintf("tutor.models[%d]", i), m, MaxModelLength); err != nil {
			return err
		}
	}

	if c.Output.DateFormat != "" {
		if err := dateutil.Validate(c.Output.DateFormat); err != nil {
			return fmt.Errorf("%w: output.dateFormat: %v", ErrInvalidValue, err)
		}
	}

	if c.Watch.Attempts < 0 || c.Watch.Attempts > MaxWatchAttempts {
		return fmt.Errorf("%w: watch.attempts must be between 0 and %d, got %d", ErrInvalidValue, MaxWatchAttempts, c.Watch.Attempts)
	}

	for _, d := range []struct{ name, value string }{
		{"watch.interval", c.Watch.Interval},
		{"tutor.timeout", c.Tutor.Timeout},
		{"browser.timeout", c.Browser.Timeout},
	} {
		if _, err := parseDuration(d.name, d.value); err != nil {
			return err
		}
	}

	return nil
}

// WatchInterval returns watch.interval, or zero when unset.
func (c *Config) WatchInterval() time.Duration {
	d, _ := parseDuration("watch.interval", c.Watch.Interval)
	return d
}

// TutorTimeout returns tutor.timeout, or zero when unset.
func (c *Config) TutorTimeout() time.Duration {
	d, _ := parseDuration("tutor.timeout", c.Tutor.Timeout)
	return d
}

// BrowserTimeout returns browser.timeout, or zero when unset.
func (c *Config) BrowserTimeout() time.Duration {
	d, _ := parseDuration("browser.timeout", c.Browser.Timeout)
	return d
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, name, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name, layered
// over DefaultConfig. A value containing a path separator is a file path;
// anything else is a name searched in the current directory and then in
// the user config directory. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}
	return load(configPath)
}

// Discover finds the config to use: explicit (the --config flag), then
// $MATHTUTOR_CONFIG, then mathtutor.yaml in the working directory or the
// user config directory. When none of these exist it returns DefaultConfig
// with an empty path. An explicit or environment path that does not exist
// is an error.
func Discover(explicit string, getenv func(string) string) (*Config, string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if explicit == "" {
		explicit = getenv(EnvConfig)
	}
	if explicit != "" {
		cfg, err := LoadConfig(explicit)
		if err != nil {
			return nil, "", err
		}
		return cfg, explicit, nil
	}

	path, err := resolveConfigPath(DefaultName)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func load(configPath string) (*Config, error) {
	var cfg Config
	if err := yamlutil.ReadFileStrict(configPath, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		if errors.Is(err, yamlutil.ErrNilData) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return &cfg, nil
}

// fillDefaults copies DefaultConfig values into unset fields.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	setIfEmpty(&c.Render.Engine, d.Render.Engine)
	setIfEmpty(&c.Render.Style, d.Render.Style)
	setIfEmpty(&c.Watch.Interval, d.Watch.Interval)
	setIfEmpty(&c.Tutor.Timeout, d.Tutor.Timeout)
	setIfEmpty(&c.Keys.EnvFile, d.Keys.EnvFile)
	setIfEmpty(&c.Browser.Timeout, d.Browser.Timeout)
	setIfEmpty(&c.Output.DateFormat, d.Output.DateFormat)
	if c.Watch.Attempts == 0 {
		c.Watch.Attempts = d.Watch.Attempts
	}
	c.Render.Engine = strings.ToLower(c.Render.Engine)
}

func setIfEmpty(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// SearchPaths lists the locations tried for name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, "go-mdmath", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
