package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/hints"
	"github.com/alnah/go-mdmath/internal/keystore"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Config   configInfo `json:"config"`
	Keys     keyInfo    `json:"keys"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

type configInfo struct {
	Path   string   `json:"path,omitempty"` // empty = built-in defaults
	Engine string   `json:"engine"`
	Models []string `json:"models,omitempty"`
}

type keyInfo struct {
	Count  int    `json:"count"`
	Source string `json:"source,omitempty"`
}

type chromeInfo struct {
	Needed  bool   `json:"needed"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  bool   `json:"container"`
	CI         bool   `json:"ci"`
	NoSandbox  string `json:"rod_no_sandbox"`
	BrowserBin string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctor reports whether mathtutor can render, reach Gemini and print
// PDFs. Missing API keys and an unusable config are errors; a missing
// Chrome is an error only when the configured engine needs it.
func runDoctor(args []string, env *Environment) error {
	var common commonFlags
	var jsonOutput bool
	fs := newFlagSet("doctor")
	fs.StringVarP(&common.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	if _, err := parseFlags(fs, args, env, printDoctorUsage); err != nil {
		return err
	}

	r := diagnose(env, common.config)
	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	} else {
		printDoctorResult(env.Stdout, r)
	}

	if r.Status == statusErrors {
		return errDoctorFailed
	}
	return nil
}

var errDoctorFailed = errors.New("doctor found problems")

func diagnose(env *Environment, configFlag string) *doctorResult {
	r := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := checkConfig(r, env, configFlag)
	if cfg != nil {
		checkKeys(r, env, cfg)
	}
	checkChrome(r)
	checkEnvironment(r, env.Getenv)
	checkSystem(r)

	if len(r.Errors) > 0 {
		r.Status = statusErrors
	} else if len(r.Warnings) > 0 {
		r.Status = statusWarnings
	}
	return r
}

func checkConfig(r *doctorResult, env *Environment, configFlag string) *config.Config {
	var cfg *config.Config
	var path string
	if env.Config != nil && configFlag == "" {
		copied := *env.Config
		cfg = &copied
	} else {
		var err error
		if cfg, path, err = config.Discover(configFlag, env.Getenv); err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("Config: %v", err))
			return nil
		}
	}
	applyEnvConfig(loadEnvConfig(env.Getenv), cfg)
	if err := cfg.Validate(); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("Config: %v", err))
		return nil
	}

	r.Config = configInfo{Path: path, Engine: cfg.Render.Engine, Models: cfg.Tutor.Models}
	r.Chrome.Needed = strings.EqualFold(cfg.Render.Engine, config.EngineKaTeX)
	return cfg
}

func checkKeys(r *doctorResult, env *Environment, cfg *config.Config) {
	store := keyStore(env, cfg)
	resolver := keystore.Resolver{Store: store, EnvFile: cfg.Keys.EnvFile, Getenv: env.Getenv}
	keys, err := resolver.ResolveAll()
	if err != nil {
		r.Errors = append(r.Errors, "No Gemini API key. Run 'mathtutor key set <key>' or set GEMINI_API_KEY")
		return
	}
	r.Keys.Count = len(keys)
	r.Keys.Source = "environment"
	if stored, err := store.Keys(); err == nil && len(stored) > 0 {
		r.Keys.Source = store.Path()
	}
}

func checkChrome(r *doctorResult) {
	path := r.Env.BrowserBin
	if path == "" {
		var found bool
		if path, found = launcher.LookPath(); !found {
			r.addChromeProblem("Chrome/Chromium not found. KaTeX and PDF export need it; install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}
	if _, err := os.Stat(path); err != nil {
		r.addChromeProblem(fmt.Sprintf("Chrome not found at %s", path))
		return
	}

	r.Chrome.Found = true
	r.Chrome.Path = path
	r.Chrome.Sandbox = r.Env.NoSandbox != "1"

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path from launcher or ROD_BROWSER_BIN
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
		return
	}
	r.Chrome.Version = strings.TrimSpace(string(out))
}

// addChromeProblem records a missing browser as an error when the engine
// needs it, as a warning otherwise.
func (r *doctorResult) addChromeProblem(msg string) {
	if r.Chrome.Needed {
		r.Errors = append(r.Errors, msg)
		return
	}
	r.Warnings = append(r.Warnings, msg)
}

func checkEnvironment(r *doctorResult, getenv func(string) string) {
	r.Env.Container = hints.IsInContainer() || getenv("container") != "" || getenv("KUBERNETES_SERVICE_HOST") != ""
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			r.Env.CI = true
			break
		}
	}
	if (r.Env.Container || r.Env.CI) && r.Env.NoSandbox != "1" && r.Chrome.Found {
		r.Warnings = append(r.Warnings, "Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

func checkSystem(r *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "mathtutor-doctor-write-check")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	r.System.TempWritable = true
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	ok := color.New(color.FgGreen).Sprint("[OK]")
	warn := color.New(color.FgYellow).Sprint("[WARN]")
	bad := color.New(color.FgRed).Sprint("[ERROR]")

	fmt.Fprintln(w, "mathtutor doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	if r.Config.Engine != "" {
		source := r.Config.Path
		if source == "" {
			source = "built-in defaults"
		}
		fmt.Fprintf(w, "  %s Loaded from %s\n", ok, source)
		fmt.Fprintf(w, "  %s Formula engine: %s\n", ok, r.Config.Engine)
	} else {
		fmt.Fprintf(w, "  %s Not usable\n", bad)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "API keys")
	if r.Keys.Count > 0 {
		fmt.Fprintf(w, "  %s %d key(s) from %s\n", ok, r.Keys.Count, r.Keys.Source)
	} else {
		fmt.Fprintf(w, "  %s None configured\n", bad)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	switch {
	case r.Chrome.Found:
		fmt.Fprintf(w, "  %s Found at %s\n", ok, r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  %s Version: %s\n", ok, r.Chrome.Version)
		}
	case r.Chrome.Needed:
		fmt.Fprintf(w, "  %s Not found (needed by the katex engine)\n", bad)
	default:
		fmt.Fprintf(w, "  %s Not found (only needed for katex and PDF)\n", warn)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  %s Platform: %s/%s\n", ok, r.Env.OS, r.Env.Arch)
	if r.System.TempWritable {
		fmt.Fprintf(w, "  %s Temp directory: writable\n", ok)
	} else {
		fmt.Fprintf(w, "  %s Temp directory: not writable\n", bad)
	}
	fmt.Fprintln(w)

	for _, msg := range r.Warnings {
		fmt.Fprintf(w, "%s %s\n", warn, msg)
	}
	for _, msg := range r.Errors {
		fmt.Fprintf(w, "%s %s\n", bad, msg)
	}
	if len(r.Warnings)+len(r.Errors) > 0 {
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
