package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-mdmath/internal/browser"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/keystore"
	"github.com/alnah/go-mdmath/internal/tutor"
)

// fakeClient is a scripted ChatClient. chunks are streamed by StreamChat;
// err is returned after them.
type fakeClient struct {
	key    string
	chunks []string
	err    error
	json   string

	mu       sync.Mutex
	received [][]tutor.Message
}

func (f *fakeClient) StreamChat(_ context.Context, history []tutor.Message, onChunk func(string) error) error {
	f.mu.Lock()
	f.received = append(f.received, append([]tutor.Message(nil), history...))
	f.mu.Unlock()
	for _, c := range f.chunks {
		if err := onChunk(c); err != nil {
			return err
		}
	}
	return f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.json, nil
}

// fakeClients hands out one client per API key and records the keys used.
type fakeClients struct {
	mu       sync.Mutex
	byKey    map[string]*fakeClient
	used     []string
	fallback *fakeClient
}

func (f *fakeClients) factory(_ context.Context, apiKey string, _ []string, _ func(string, ...any)) (ChatClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.used = append(f.used, apiKey)
	if c, ok := f.byKey[apiKey]; ok {
		return c, nil
	}
	return f.fallback, nil
}

func (f *fakeClients) keysUsed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.used...)
}

// testEnv returns an Environment with buffers, a temp key store, no
// environment variables and a fast watch.
func testEnv(t *testing.T, client *fakeClient) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Watch.Attempts = 1
	cfg.Watch.Interval = "1ms"
	cfg.Keys.EnvFile = filepath.Join(t.TempDir(), "missing.env")

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	clients := &fakeClients{fallback: client}
	env := &Environment{
		Now:        func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) },
		Stdin:      strings.NewReader(""),
		Stdout:     stdout,
		Stderr:     stderr,
		Getenv:     func(string) string { return "" },
		Environ:    func() []string { return nil },
		Config:     cfg,
		KeyStore:   keystore.New(filepath.Join(t.TempDir(), "keys.yaml")),
		NewClient:  clients.factory,
		NewBrowser: browser.New,
	}
	return env, stdout, stderr
}

// withKeys stores keys in env's key store.
func withKeys(t *testing.T, env *Environment, keys ...string) {
	t.Helper()
	if err := env.KeyStore.Set(keys...); err != nil {
		t.Fatalf("KeyStore.Set() error = %v", err)
	}
}
