// Package hints appends short remedies to CLI error messages. Every hint
// has the form "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdmath/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect suggests Chrome settings for CI and containers.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	return formatHints(hints)
}

// ForKaTeXLoad is shown when the KaTeX script could not be fetched.
func ForKaTeXLoad(scriptURL string) string {
	return formatHints([]string{
		"check network access to " + scriptURL,
		"or use --engine mathml, which needs no browser",
	})
}

// ForTimeout suggests raising the timeout.
func ForTimeout() string {
	return format("for long answers or slow networks, use --timeout")
}

// ForConfigNotFound suggests --config or creating the user config file.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/mathtutor.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), ".config/go-mdmath") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory is shown when the output file cannot be created.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the available styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForNoAPIKey explains where keys are looked up.
func ForNoAPIKey(storePath string) string {
	hints := []string{"run 'mathtutor key set <key>'", "or set GEMINI_API_KEY"}
	if storePath != "" {
		hints = append(hints, "keys are stored in "+storePath)
	}
	return formatHints(hints)
}

// ForKeyRejected is shown when Gemini refuses the key.
func ForKeyRejected() string {
	return format("create a new key at https://aistudio.google.com/apikey and run 'mathtutor key set'")
}

// ForQuota is shown when every model hit its rate limit.
func ForQuota() string {
	return format("wait a minute, or add more keys with 'mathtutor key set <key1> <key2>'")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
