//go:build !windows

package main

import (
	"os"
	"syscall"
)

// stopSignals end a conversion run: Ctrl-C, or SIGTERM from a supervisor.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
