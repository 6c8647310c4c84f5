//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// notifyContext cancels on Ctrl-C. Windows has no SIGTERM or SIGHUP.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
