// Package browser manages the headless Chrome instance shared by the KaTeX
// formula engine and PDF export.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdmath/internal/process"
)

// Sentinel errors for browser operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrClosed         = errors.New("browser closed")
)

// DefaultTimeout bounds page loads when the caller's context has no deadline.
const DefaultTimeout = 30 * time.Second

// Browser lazily launches Chrome on first use. It is safe for concurrent use.
// Rod downloads Chromium on first run if no browser is found.
type Browser struct {
	timeout time.Duration

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	closed   bool
}

// New creates a Browser. A non-positive timeout selects DefaultTimeout.
func New(timeout time.Duration) *Browser {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Browser{timeout: timeout}
}

// ensure connects to the browser. Caller must hold b.mu.
func (b *Browser) ensure() error {
	if b.closed {
		return ErrClosed
	}
	if b.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.launcher = l
	b.browser = browser
	return nil
}

// Open creates a page at url and waits for it to load. The caller closes the
// page.
func (b *Browser) Open(ctx context.Context, url string) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	err := b.ensure()
	browser := b.browser
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := b.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return page, nil
}

// Timeout returns the default page timeout.
func (b *Browser) Timeout() time.Duration {
	return b.timeout
}

// Close shuts the browser down and kills its process tree. Close is
// idempotent; a closed Browser refuses new pages.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	if b.browser == nil {
		return nil
	}

	err := b.browser.Close()
	if b.launcher != nil {
		process.KillProcessGroup(b.launcher.PID())
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	b.browser = nil
	b.launcher = nil
	return err
}
