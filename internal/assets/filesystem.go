package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader reads assets from a user-supplied directory, laid out
// like the embedded one. Names are validated and the resolved file must
// stay inside the directory, symlinks included.
type FilesystemLoader struct {
	dir string // absolute, symlinks resolved
}

// NewFilesystemLoader checks that dir is a readable directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	_, err = os.ReadDir(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidBasePath, abs)
	case err != nil:
		// ReadDir on a regular file fails too; report it the same way.
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBasePath, abs, err)
	}
	return &FilesystemLoader{dir: abs}, nil
}

func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.read(styleKind, name)
}

func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.read(templateKind, name)
}

func (f *FilesystemLoader) LoadPrompt(name string) (string, error) {
	return f.read(promptKind, name)
}

func (f *FilesystemLoader) read(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path := filepath.Join(f.dir, k.dir, name+k.ext)
	if err := f.contains(path); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- name validated, path contained
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	case err != nil:
		return "", fmt.Errorf("%w: %s: %v", ErrAssetRead, path, err)
	}
	return string(data), nil
}

// contains fails with ErrPathTraversal when path, after following
// symlinks, is not below the loader directory. A path that does not exist
// yet is checked as written and fails later as not found.
func (f *FilesystemLoader) contains(path string) error {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	rel, err := filepath.Rel(f.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}
	return nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
