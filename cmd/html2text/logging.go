package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phuslu/log"
)

// ErrInvalidLogLevel is returned for log levels outside debug, info, warn, error.
var ErrInvalidLogLevel = errors.New("invalid log level")

// parseLogLevel maps a config or flag value to a logger level.
// An empty value means info.
func parseLogLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return 0, fmt.Errorf("%w: %q (want debug, info, warn, error)", ErrInvalidLogLevel, s)
}

// newLogger builds the diagnostic logger written to w.
// --quiet forces error level; --verbose lowers the level to debug.
func newLogger(w io.Writer, level string, quiet, verbose bool) (*log.Logger, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}

	switch {
	case quiet:
		lvl = log.ErrorLevel
	case verbose && lvl > log.DebugLevel:
		lvl = log.DebugLevel
	}

	return &log.Logger{
		Level:  lvl,
		Writer: &log.ConsoleWriter{Writer: w},
	}, nil
}
