package main

// Notes:
// - runMain: we test exit codes and routing for each command. Conversion
//   details are covered in convert_test.go.
// - main itself is not tested; it only wires setMaxProcs and os.Exit.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-html2text/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

// testEnv returns an Environment writing to buffers and reading stdin from input.
func testEnv(input string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Stdout: &stdout,
		Stderr: &stderr,
		Stdin:  strings.NewReader(input),
		Config: config.DefaultConfig(),
	}
	return env, &stdout, &stderr
}

// writeFile creates parent directories and writes content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// TestIsCommand - Command name detection
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"convert", true},
		{"version", true},
		{"help", true},
		{"foo", false},
		{"", false},
		{"mail.html", false},
		{"Convert", false},
	}

	for _, tt := range tests {
		if got := isCommand(tt.input); got != tt.want {
			t.Errorf("isCommand(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestLooksLikeInput - Implicit convert detection
// ---------------------------------------------------------------------------

func TestLooksLikeInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"-", true},
		{"mail.html", true},
		{"MAIL.HTM", true},
		{"notes.md", true},
		{"notes.markdown", true},
		{"notes.txt", false},
		{"mail", false},
	}

	for _, tt := range tests {
		if got := looksLikeInput(tt.input); got != tt.want {
			t.Errorf("looksLikeInput(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestVerboseRequested - Pre-parse verbose detection
// ---------------------------------------------------------------------------

func TestVerboseRequested(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"short flag", []string{"convert", "-v", "a.html"}, true},
		{"long flag", []string{"convert", "a.html", "--verbose"}, true},
		{"absent", []string{"convert", "a.html"}, false},
		{"after terminator", []string{"convert", "--", "-v"}, false},
	}

	for _, tt := range tests {
		if got := verboseRequested(tt.args); got != tt.want {
			t.Errorf("%s: verboseRequested(%v) = %v, want %v", tt.name, tt.args, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Command routing and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints usage", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv("")
		if code := runMain([]string{"html2text"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "Usage: html2text") {
			t.Errorf("stderr should contain usage, got %q", stderr.String())
		}
	})

	t.Run("version", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv("")
		if code := runMain([]string{"html2text", "version"}, env); code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
		if got := stdout.String(); got != "html2text "+Version+"\n" {
			t.Errorf("stdout = %q", got)
		}
	})

	t.Run("help flag", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv("")
		if code := runMain([]string{"html2text", "--help"}, env); code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
		if !strings.Contains(stdout.String(), "Commands:") {
			t.Errorf("stdout should contain usage, got %q", stdout.String())
		}
	})

	t.Run("convert help", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv("")
		if code := runMain([]string{"html2text", "convert", "-h"}, env); code != ExitSuccess {
			t.Errorf("exit code = %d, want %d", code, ExitSuccess)
		}
		if !strings.Contains(stdout.String(), "Usage: html2text convert") {
			t.Errorf("stdout should contain convert usage, got %q", stdout.String())
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv("")
		if code := runMain([]string{"html2text", "frobnicate"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "unknown command: frobnicate") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv("")
		if code := runMain([]string{"html2text", "convert", "--colour"}, env); code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "help convert") {
			t.Errorf("stderr should point at help, got %q", stderr.String())
		}
	})

	t.Run("implicit convert of a file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		input := filepath.Join(dir, "mail.html")
		writeFile(t, input, "<h1>Hello</h1><p>World</p>")

		env, stdout, stderr := testEnv("")
		if code := runMain([]string{"html2text", input, "-q"}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr = %q", code, stderr.String())
		}

		got := readFile(t, filepath.Join(dir, "mail.txt"))
		if !strings.Contains(got, "HELLO") || !strings.Contains(got, "World") {
			t.Errorf("output = %q, want heading and body", got)
		}
		if stdout.Len() != 0 {
			t.Errorf("quiet run should print nothing, got %q", stdout.String())
		}
	})

	t.Run("missing input file", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		missing := filepath.Join(t.TempDir(), "missing.html")
		if code := runMain([]string{"html2text", "convert", missing}, env); code != ExitIO {
			t.Errorf("exit code = %d, want %d", code, ExitIO)
		}
	})

	t.Run("stdin to stdout", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(`<p>Read <a href="https://example.com">this</a></p>`)
		if code := runMain([]string{"html2text", "convert", "-"}, env); code != ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}

		want := "Read this [1]\n\nLinks:\n-------\n[1] https://example.com\n"
		if got := stdout.String(); got != want {
			t.Errorf("stdout = %q, want %q", got, want)
		}
	})

	t.Run("invalid rule pattern", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv("<p>x</p>")
		code := runMain([]string{"html2text", "convert", "-", "--rule", "(unclosed=>x"}, env)
		if code != ExitUsage {
			t.Errorf("exit code = %d, want %d", code, ExitUsage)
		}
		if !strings.Contains(stderr.String(), "hint:") {
			t.Errorf("stderr should carry a hint, got %q", stderr.String())
		}
	})
}
