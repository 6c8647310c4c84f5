package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/alnah/go-mdmath/internal/keystore"
)

// runKey manages stored API keys: set, show, clear, path.
func runKey(args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("key")
	common.register(fs)

	positional, err := parseFlags(fs, args, env, printKeyUsage)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		printKeyUsage(env.Stderr)
		return fmt.Errorf("%w: missing key subcommand", ErrUsage)
	}

	cfg, err := loadConfig(env, &common)
	if err != nil {
		return err
	}
	store := keyStore(env, cfg)
	green := color.New(color.FgGreen)

	sub, rest := positional[0], positional[1:]
	switch sub {
	case "set":
		keys := splitKeys(rest)
		if len(keys) == 0 {
			return fmt.Errorf("%w: key set needs at least one key", ErrUsage)
		}
		if err := store.Set(keys...); err != nil {
			return err
		}
		if !common.quiet {
			green.Fprintf(env.Stdout, "Saved %d key(s) to %s\n", len(keys), store.Path())
		}
		return nil

	case "show":
		resolver := keystore.Resolver{Store: store, EnvFile: cfg.Keys.EnvFile, Getenv: env.Getenv}
		keys, err := resolver.ResolveAll()
		if errors.Is(err, keystore.ErrNoAPIKey) {
			fmt.Fprintln(env.Stdout, "No API key configured.")
			return nil
		}
		if err != nil {
			return err
		}
		stored, err := store.Keys()
		if err != nil {
			return err
		}
		source := "environment"
		if len(stored) > 0 {
			source = store.Path()
		}
		fmt.Fprintf(env.Stdout, "Source: %s\n", source)
		for i, k := range keys {
			fmt.Fprintf(env.Stdout, "  %d. %s\n", i+1, keystore.Mask(k))
		}
		return nil

	case "clear":
		if err := store.Clear(); err != nil {
			return err
		}
		if !common.quiet {
			green.Fprintln(env.Stdout, "Stored keys removed.")
		}
		return nil

	case "path":
		fmt.Fprintln(env.Stdout, store.Path())
		return nil
	}
	return fmt.Errorf("%w: unknown key subcommand %q (set, show, clear, path)", ErrUsage, sub)
}

// splitKeys accepts keys as separate arguments or comma/newline lists.
func splitKeys(args []string) []string {
	var keys []string
	for _, a := range args {
		for _, k := range strings.FieldsFunc(a, func(r rune) bool { return r == ',' || r == '\n' }) {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}
	return keys
}
