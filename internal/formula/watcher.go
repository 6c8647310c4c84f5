package formula

import (
	"context"
	"sync/atomic"
	"time"
)

// State is the loading state of the watched engine.
type State int32

const (
	NotLoaded State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "not loaded"
}

// Default polling parameters.
const (
	DefaultAttempts = 50
	DefaultInterval = 100 * time.Millisecond
)

// Watcher gates an engine on its readiness. The loaded flag is written only
// by Watch and read by any number of renders.
type Watcher struct {
	engine   Engine
	attempts int
	interval time.Duration
	loaded   atomic.Bool
}

// NewWatcher wraps engine. Non-positive attempts or interval select the
// defaults.
func NewWatcher(engine Engine, attempts int, interval time.Duration) *Watcher {
	if engine == nil {
		engine = Unavailable{}
	}
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{engine: engine, attempts: attempts, interval: interval}
}

// State returns the state recorded by Watch.
func (w *Watcher) State() State {
	if w.loaded.Load() {
		return Loaded
	}
	return NotLoaded
}

// Ready reports whether the engine can render now. It consults the engine
// directly, so a render issued after a timed-out Watch still picks up an
// engine that loaded late.
func (w *Watcher) Ready() bool {
	return w.loaded.Load() || w.engine.Ready()
}

// Render delegates to the engine.
func (w *Watcher) Render(tex string, display bool) (string, error) {
	if !w.Ready() {
		return "", ErrNotReady
	}
	return w.engine.Render(tex, display)
}

// Watch polls the engine up to the configured number of attempts. On the
// transition to Loaded it calls onLoaded once, so the host can re-render
// content produced while formulas were falling back. Watch returns whether
// the engine is loaded; it gives up early when ctx is done.
func (w *Watcher) Watch(ctx context.Context, onLoaded func()) bool {
	if w.loaded.Load() {
		return true
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for attempt := 0; attempt < w.attempts; attempt++ {
		if w.engine.Ready() {
			if w.loaded.CompareAndSwap(false, true) && onLoaded != nil {
				onLoaded()
			}
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return false
}
