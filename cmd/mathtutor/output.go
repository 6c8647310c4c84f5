package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdmath/internal/dateutil"
	"github.com/alnah/go-mdmath/internal/export"
)

// File permission constants.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// outputTarget describes where a rendered fragment goes.
type outputTarget struct {
	path    string // empty = stdout
	title   string
	page    bool   // wrap in a standalone document
	baseDir string // resolves relative images when printing to PDF
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// emit writes fragment to the target. A .pdf path prints the page through
// headless Chrome; any other path, or stdout, receives HTML.
func emit(ctx context.Context, s *renderSetup, out outputTarget, fragment string) error {
	if isPDF(out.path) {
		page, err := s.renderer.Page(ctx, out.title, fragment)
		if err != nil {
			return err
		}
		date, err := dateutil.Format(s.env.Now(), firstNonEmpty(s.cfg.Output.DateFormat, dateutil.DefaultDateFormat))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		opts := export.Options{Footer: out.title, Date: date, PageNumbers: true, BaseDir: out.baseDir}
		return export.New(s.sharedBrowser()).WriteFile(ctx, out.path, page, opts)
	}

	content := fragment
	if out.page {
		page, err := s.renderer.Page(ctx, out.title, fragment)
		if err != nil {
			return err
		}
		content = page
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return writeOutput(s.env.Stdout, out.path, content)
}

// writeOutput writes content to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		if _, err := io.WriteString(stdout, content); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := os.WriteFile(path, []byte(content), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// readInput reads the single positional input. No argument or "-" reads
// stdin. The returned name is used as a default title.
func readInput(stdin io.Reader, args []string) (text, name string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		return string(data), "", nil
	}
	data, err := os.ReadFile(args[0]) // #nosec G304 -- user-provided input path
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	base := filepath.Base(args[0])
	return string(data), strings.TrimSuffix(base, filepath.Ext(base)), nil
}
