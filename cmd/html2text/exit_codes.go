package main

import (
	"errors"
	"os"

	html2text "github.com/alnah/go-html2text"
	"github.com/alnah/go-html2text/internal/config"
)

// Exit codes for the html2text CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, html2text.ErrInvalidRule) ||
		errors.Is(err, html2text.ErrInvalidWidth) ||
		errors.Is(err, html2text.ErrInvalidOption) ||
		errors.Is(err, html2text.ErrEmptyMarkdown) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrInvalidRuleFlag) ||
		errors.Is(err, ErrInvalidLogLevel) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrOutputFileForDir) ||
		errors.Is(err, ErrWatchStdin) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoFiles) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrWatch) {
		return ExitIO
	}

	return ExitGeneral
}
