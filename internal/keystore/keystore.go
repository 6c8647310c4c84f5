// Package keystore keeps Gemini API keys in a local YAML file and resolves
// the key to use from the file, a .env file and the environment.
package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/yamlutil"
)

// Sentinel errors for key storage.
var (
	ErrNoAPIKey   = errors.New("no API key configured")
	ErrStoreRead  = errors.New("failed to read key store")
	ErrStoreWrite = errors.New("failed to write key store")
)

// Environment variables consulted, in order.
const (
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvAPIKey    = "API_KEY"
)

// placeholderKey is the value shipped in sample .env files.
const placeholderKey = "PLACEHOLDER_API_KEY"

// fileName is the store file inside the user config directory.
const fileName = "keys.yaml"

// file is the on-disk layout. Keys is the ordered multi-key list; Key is a
// single key kept for files written by hand.
type file struct {
	Keys []string `yaml:"keys,omitempty"`
	Key  string   `yaml:"key,omitempty"`
}

// Store reads and writes the key file at a fixed path.
type Store struct {
	path string
}

// New creates a Store for path. The file need not exist.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.config/go-mdmath/keys.yaml (or the platform
// equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	return filepath.Join(dir, "go-mdmath", fileName), nil
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Keys returns the stored keys, multi-key list first. A missing file yields
// no keys and no error.
func (s *Store) Keys() ([]string, error) {
	f, err := s.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(f.Keys)+1)
	for _, k := range append(f.Keys, f.Key) {
		if usable(k) {
			keys = append(keys, strings.TrimSpace(k))
		}
	}
	return keys, nil
}

// Set replaces the stored keys. Blank entries and duplicates are dropped.
// The file is created with mode 0600.
func (s *Store) Set(keys ...string) error {
	var clean []string
	seen := make(map[string]bool)
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if !usable(k) || seen[k] {
			continue
		}
		seen[k] = true
		clean = append(clean, k)
	}
	if len(clean) == 0 {
		return ErrNoAPIKey
	}
	return s.write(file{Keys: clean})
}

// Clear removes the store file.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return nil
}

func (s *Store) read() (file, error) {
	var f file
	data, err := os.ReadFile(s.path) // #nosec G304 -- path chosen by the user or DefaultPath
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return f, nil
	}
	if err := yamlutil.UnmarshalStrict(data, &f); err != nil {
		return f, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	return f, nil
}

func (s *Store) write(f file) error {
	data, err := yamlutil.Marshal(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	return nil
}

// Resolver finds the key to use.
type Resolver struct {
	Store   *Store
	EnvFile string
	Getenv  func(string) string
}

// Resolve returns the first key from ResolveAll.
func (r *Resolver) Resolve() (string, error) {
	keys, err := r.ResolveAll()
	if err != nil {
		return "", err
	}
	return keys[0], nil
}

// ResolveAll returns every usable key in rotation order. Stored keys win;
// when the store is empty it falls back to the environment, then EnvFile,
// preferring GEMINI_API_KEY over API_KEY in both. A missing EnvFile is not
// an error.
func (r *Resolver) ResolveAll() ([]string, error) {
	if r.Store != nil {
		keys, err := r.Store.Keys()
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			return keys, nil
		}
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	var dotenv map[string]string
	if r.EnvFile != "" && fileutil.FileExists(r.EnvFile) {
		env, err := godotenv.Read(r.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrStoreRead, r.EnvFile, err)
		}
		dotenv = env
	}

	for _, name := range []string{EnvGeminiKey, EnvAPIKey} {
		for _, v := range []string{getenv(name), dotenv[name]} {
			if usable(v) {
				return []string{strings.TrimSpace(v)}, nil
			}
		}
	}
	return nil, ErrNoAPIKey
}

// Mask shortens key for display, keeping the first and last four bytes.
func Mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func usable(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholderKey
}
