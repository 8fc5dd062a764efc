package main

import (
	"context"
	"os/signal"
)

// notifyContext returns a context canceled by the first stop signal.
// Batch conversion stops handing out files and --watch exits cleanly.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, stopSignals...)
}
