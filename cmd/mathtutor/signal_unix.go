//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// notifyContext cancels on Ctrl-C, SIGTERM, or SIGHUP when the terminal
// running a chat session goes away. The streaming request and any open
// browser are released through the canceled context.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
}
