package main

// Notes:
// - exitCodeFor: we test the sentinel errors from the library, config and
//   CLI packages, plus wrapped errors to verify the errors.Is() chain.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	html2text "github.com/alnah/go-html2text"
	"github.com/alnah/go-html2text/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"no files", ErrNoFiles, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"watch", ErrWatch, ExitIO},
		{"wrapped file not exist", fmt.Errorf("discovering files: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config invalid", config.ErrConfigInvalid, ExitUsage},
		{"invalid rule", html2text.ErrInvalidRule, ExitUsage},
		{"invalid width", html2text.ErrInvalidWidth, ExitUsage},
		{"invalid option", html2text.ErrInvalidOption, ExitUsage},
		{"empty markdown", html2text.ErrEmptyMarkdown, ExitUsage},
		{"invalid flags", ErrInvalidFlags, ExitUsage},
		{"invalid rule flag", ErrInvalidRuleFlag, ExitUsage},
		{"invalid log level", ErrInvalidLogLevel, ExitUsage},
		{"invalid worker count", ErrInvalidWorkerCount, ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"output file for dir", ErrOutputFileForDir, ExitUsage},
		{"watch stdin", ErrWatchStdin, ExitUsage},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading config: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"conversion failed", ErrConversionFailed, ExitGeneral},
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix conventions
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}
	for _, code := range []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO} {
		if code >= 126 {
			t.Errorf("exit code %d collides with shell-reserved codes", code)
		}
	}
}
