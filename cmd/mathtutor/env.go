package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-mdmath/internal/browser"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/keystore"
	"github.com/alnah/go-mdmath/internal/tutor"
)

// ChatClient is the part of tutor.Client the commands use.
type ChatClient interface {
	StreamChat(ctx context.Context, history []tutor.Message, onChunk func(string) error) error
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)
}

var _ ChatClient = (*tutor.Client)(nil)

// ClientFactory creates a ChatClient for one API key.
type ClientFactory func(ctx context.Context, apiKey string, models []string, logf func(string, ...any)) (ChatClient, error)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// Config, when set, is used instead of discovering a config file.
	// An explicit --config flag still wins.
	Config *config.Config

	KeyStore   *keystore.Store
	NewClient  ClientFactory
	NewBrowser func(timeout time.Duration) *browser.Browser
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	storePath, err := keystore.DefaultPath()
	if err != nil {
		storePath = ".mathtutor-keys.yaml"
	}
	return &Environment{
		Now:        time.Now,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Getenv:     os.Getenv,
		Environ:    os.Environ,
		KeyStore:   keystore.New(storePath),
		NewClient:  newTutorClient,
		NewBrowser: browser.New,
	}
}

func newTutorClient(ctx context.Context, apiKey string, models []string, logf func(string, ...any)) (ChatClient, error) {
	opts := []tutor.Option{tutor.WithLogger(logf)}
	if len(models) > 0 {
		opts = append(opts, tutor.WithModels(models...))
	}
	return tutor.NewClient(ctx, apiKey, opts...)
}
