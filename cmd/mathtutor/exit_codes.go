package main

import (
	"errors"
	"os"

	mdmath "github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/browser"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/export"
	"github.com/alnah/go-mdmath/internal/keystore"
	"github.com/alnah/go-mdmath/internal/lesson"
	"github.com/alnah/go-mdmath/internal/tutor"
)

// Exit codes for the mathtutor CLI.
// 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or missing API key
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Chrome errors (KaTeX, PDF export)
	ExitAPI     = 5 // Gemini errors
)

// exitCodeFor maps err to an exit code. Wrapped errors are matched with
// errors.Is, so callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, browser.ErrBrowserConnect) ||
		errors.Is(err, browser.ErrPageCreate) ||
		errors.Is(err, browser.ErrPageLoad) ||
		errors.Is(err, export.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, tutor.ErrInvalidKey) ||
		errors.Is(err, tutor.ErrKeyRejected) ||
		errors.Is(err, tutor.ErrQuota) ||
		errors.Is(err, tutor.ErrOverloaded) ||
		errors.Is(err, tutor.ErrModelNotFound) ||
		errors.Is(err, tutor.ErrNetwork) ||
		errors.Is(err, tutor.ErrGeneration) ||
		errors.Is(err, tutor.ErrEmptyResponse) ||
		errors.Is(err, lesson.ErrEmptyResponse) ||
		errors.Is(err, lesson.ErrParse) {
		return ExitAPI
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, export.ErrWritePDF) ||
		errors.Is(err, mdmath.ErrStyleRead) ||
		errors.Is(err, keystore.ErrStoreRead) ||
		errors.Is(err, keystore.ErrStoreWrite) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, keystore.ErrNoAPIKey) ||
		errors.Is(err, lesson.ErrMissingGrade) ||
		errors.Is(err, tutor.ErrEmptyHistory) ||
		errors.Is(err, tutor.ErrNoModels) ||
		errors.Is(err, mdmath.ErrStyleNotFound) ||
		errors.Is(err, mdmath.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
