package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	mdmath "github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/browser"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/export"
	"github.com/alnah/go-mdmath/internal/hints"
	"github.com/alnah/go-mdmath/internal/keystore"
	"github.com/alnah/go-mdmath/internal/tutor"
)

// Sentinel errors for CLI usage.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrReadInput      = errors.New("failed to read input")
	ErrWriteOutput    = errors.New("failed to write output")
)

// runMain runs one command and returns the process exit code.
func runMain(ctx context.Context, args []string, env *Environment) int {
	err := dispatch(ctx, args, env)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	printError(env.Stderr, err, env)
	return exitCodeFor(err)
}

func dispatch(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "render":
		return runRender(ctx, rest, env)
	case "chat":
		return runChat(ctx, rest, env)
	case "lesson":
		return runLesson(ctx, rest, env)
	case "key":
		return runKey(rest, env)
	case "topics":
		return runTopics(rest, env)
	case "doctor":
		return runDoctor(rest, env)
	case "graph":
		return runGraph(ctx, rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mathtutor %s\n", Version)
		return nil
	case "help", "-h", "--help":
		return runHelp(rest, env.Stdout)
	default:
		return fmt.Errorf("%w: %q (run 'mathtutor help')", ErrUnknownCommand, cmd)
	}
}

// parseFlags parses args into fs. Help requests print usage to stdout.
func parseFlags(fs *flag.FlagSet, args []string, env *Environment, usage func(io.Writer)) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(env.Stdout)
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// loadConfig resolves the configuration for a command: the --config file
// or the discovered one, then MATHTUTOR_* variables.
func loadConfig(env *Environment, common *commonFlags) (*config.Config, error) {
	cfg := env.Config
	if cfg == nil || common.config != "" {
		loaded, path, err := config.Discover(common.config, env.Getenv)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		if common.verbose && path != "" {
			fmt.Fprintf(env.Stderr, "config: %s\n", path)
		}
		cfg = loaded
	} else {
		copied := *cfg
		cfg = &copied
	}

	if env.Environ != nil && !common.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}
	applyEnvConfig(loadEnvConfig(env.Getenv), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// logger returns a printf-style function writing to stderr when verbose.
func logger(env *Environment, verbose bool) func(string, ...any) {
	if !verbose {
		return func(string, ...any) {}
	}
	return func(format string, args ...any) {
		fmt.Fprintf(env.Stderr, format+"\n", args...)
	}
}

// printError writes err with a remedy hint when one applies. Gemini errors
// are shown with their Vietnamese message.
func printError(w io.Writer, err error, env *Environment) {
	red := color.New(color.FgRed, color.Bold)
	msg := err.Error()
	if isTutorError(err) {
		msg = tutor.UserMessage(err)
	}
	red.Fprint(w, "error: ")
	fmt.Fprintln(w, msg+hintFor(err, env))
}

func isTutorError(err error) bool {
	for _, target := range []error{
		tutor.ErrInvalidKey, tutor.ErrKeyRejected, tutor.ErrQuota, tutor.ErrOverloaded,
		tutor.ErrModelNotFound, tutor.ErrNetwork, tutor.ErrGeneration, tutor.ErrEmptyResponse,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func hintFor(err error, env *Environment) string {
	switch {
	case errors.Is(err, browser.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(config.DefaultName))
	case errors.Is(err, mdmath.ErrStyleNotFound):
		return hints.ForStyleNotFound([]string{assets.DefaultStyleName})
	case errors.Is(err, keystore.ErrNoAPIKey):
		path := ""
		if env.KeyStore != nil {
			path = env.KeyStore.Path()
		}
		return hints.ForNoAPIKey(path)
	case errors.Is(err, tutor.ErrInvalidKey), errors.Is(err, tutor.ErrKeyRejected):
		return hints.ForKeyRejected()
	case errors.Is(err, tutor.ErrQuota):
		return hints.ForQuota()
	case errors.Is(err, ErrWriteOutput), errors.Is(err, export.ErrWritePDF):
		return hints.ForOutputDirectory()
	}
	return ""
}

// withTimeout applies the --timeout flag, or fallback when the flag is
// unset. A zero fallback leaves ctx unchanged.
func withTimeout(ctx context.Context, flagValue, fallback time.Duration) (context.Context, context.CancelFunc) {
	d := flagValue
	if d <= 0 {
		d = fallback
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// firstNonEmpty returns the first non-blank value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
