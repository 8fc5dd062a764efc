//go:build windows

package main

import "os"

// stopSignals end a conversion run. SIGTERM is never delivered on Windows.
var stopSignals = []os.Signal{os.Interrupt}
