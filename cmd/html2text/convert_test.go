package main

// Notes:
// - runConvert: end-to-end tests use temp directories and the real
//   converter; output assertions check structure rather than every byte,
//   which the library tests already pin down.
// - Concurrency of convertBatch is exercised through a stub pool; results
//   must keep input order regardless of worker scheduling.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	html2text "github.com/alnah/go-html2text"
	"github.com/alnah/go-html2text/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Stub pool
// ---------------------------------------------------------------------------

// stubPool hands out the same converter to every worker.
type stubPool struct {
	conv Converter
	size int
}

func (p *stubPool) Acquire() Converter {
	if p.conv == nil {
		return nil
	}
	return p.conv
}
func (p *stubPool) Release(Converter) {}
func (p *stubPool) Size() int         { return p.size }

// ---------------------------------------------------------------------------
// TestConvertBatch - Worker pool processing
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	t.Run("writes every file in order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var files []FileToConvert
		for _, name := range []string{"a", "b", "c", "d", "e"} {
			in := filepath.Join(dir, name+".html")
			writeFile(t, in, name)
			files = append(files, FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, "out", name+".txt")})
		}

		conv := &stubConverter{}
		results := convertBatch(context.Background(), &stubPool{conv: conv, size: 3}, files, &conversionParams{})

		if len(results) != len(files) {
			t.Fatalf("got %d results, want %d", len(results), len(files))
		}
		for i, r := range results {
			if r.Err != nil {
				t.Errorf("results[%d].Err = %v", i, r.Err)
			}
			if r.InputPath != files[i].InputPath {
				t.Errorf("results[%d].InputPath = %q, want %q", i, r.InputPath, files[i].InputPath)
			}
			name := strings.TrimSuffix(filepath.Base(files[i].InputPath), ".html")
			if got := readFile(t, files[i].OutputPath); got != "text:"+name+"\n" {
				t.Errorf("%s content = %q", files[i].OutputPath, got)
			}
		}
		if conv.calls.Load() != int32(len(files)) {
			t.Errorf("converter called %d times, want %d", conv.calls.Load(), len(files))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		if results := convertBatch(context.Background(), &stubPool{size: 2}, nil, &conversionParams{}); results != nil {
			t.Errorf("results = %v, want nil", results)
		}
	})

	t.Run("converter init failure", func(t *testing.T) {
		t.Parallel()

		files := []FileToConvert{{InputPath: "a.html"}, {InputPath: "b.html"}}
		results := convertBatch(context.Background(), &stubPool{size: 1}, files, &conversionParams{})

		for _, r := range results {
			if !errors.Is(r.Err, ErrConverterInit) {
				t.Errorf("%s: Err = %v, want ErrConverterInit", r.InputPath, r.Err)
			}
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		files := []FileToConvert{{InputPath: "a.html"}}
		results := convertBatch(ctx, &stubPool{conv: &stubConverter{}, size: 1}, files, &conversionParams{})
		if !errors.Is(results[0].Err, context.Canceled) {
			t.Errorf("Err = %v, want context.Canceled", results[0].Err)
		}
	})

	t.Run("stdout mode keeps text", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(t.TempDir(), "a.md")
		writeFile(t, in, "# A")

		results := convertBatch(context.Background(), &stubPool{conv: &stubConverter{}, size: 1},
			[]FileToConvert{{InputPath: in, OutputPath: "unused.txt"}},
			&conversionParams{markdown: true, stdout: true})

		r := results[0]
		if r.Err != nil || !r.Stdout || r.Text != "md:# A" {
			t.Errorf("result = %+v, want printed markdown text", r)
		}
		if _, err := os.Stat("unused.txt"); err == nil {
			t.Error("stdout mode should not write files")
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvertFile - Single file errors
// ---------------------------------------------------------------------------

func TestConvertFile(t *testing.T) {
	t.Parallel()

	t.Run("read error", func(t *testing.T) {
		t.Parallel()

		f := FileToConvert{InputPath: filepath.Join(t.TempDir(), "missing.html")}
		r := convertFile(context.Background(), &stubConverter{}, f, &conversionParams{})
		if !errors.Is(r.Err, ErrReadInput) {
			t.Errorf("Err = %v, want ErrReadInput", r.Err)
		}
	})

	t.Run("render error", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(t.TempDir(), "a.md")
		writeFile(t, in, "")

		conv := &stubConverter{err: html2text.ErrEmptyMarkdown}
		r := convertFile(context.Background(), conv, FileToConvert{InputPath: in}, &conversionParams{markdown: true})
		if !errors.Is(r.Err, html2text.ErrEmptyMarkdown) {
			t.Errorf("Err = %v, want ErrEmptyMarkdown", r.Err)
		}
	})

	t.Run("unwritable output directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		in := filepath.Join(dir, "a.html")
		writeFile(t, in, "x")
		blocker := filepath.Join(dir, "blocker")
		writeFile(t, blocker, "not a directory")

		f := FileToConvert{InputPath: in, OutputPath: filepath.Join(blocker, "a.txt")}
		r := convertFile(context.Background(), &stubConverter{}, f, &conversionParams{})
		if r.Err == nil || !strings.Contains(r.Err.Error(), "hint:") {
			t.Errorf("Err = %v, want directory error with hint", r.Err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPrintResultsWithWriter - Result reporting
// ---------------------------------------------------------------------------

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.html", OutputPath: "a.txt"},
		{InputPath: "b.html", Err: ErrReadInput},
	}

	tests := []struct {
		name       string
		quiet      bool
		verbose    bool
		stdoutHas  []string
		stdoutNot  []string
		stderrHas  []string
		wantFailed int
	}{
		{
			name:       "default",
			stdoutHas:  []string{"Created a.txt", "1 succeeded, 1 failed"},
			stderrHas:  []string{"FAILED b.html"},
			wantFailed: 1,
		},
		{
			name:       "verbose",
			verbose:    true,
			stdoutHas:  []string{"a.html -> a.txt"},
			stderrHas:  []string{"FAILED b.html"},
			wantFailed: 1,
		},
		{
			name:       "quiet",
			quiet:      true,
			stdoutNot:  []string{"Created", "succeeded"},
			stderrHas:  []string{"FAILED b.html"},
			wantFailed: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("")
			failed := printResultsWithWriter(results, tt.quiet, tt.verbose, env)

			if failed != tt.wantFailed {
				t.Errorf("failed = %d, want %d", failed, tt.wantFailed)
			}
			for _, s := range tt.stdoutHas {
				if !strings.Contains(stdout.String(), s) {
					t.Errorf("stdout missing %q: %q", s, stdout.String())
				}
			}
			for _, s := range tt.stdoutNot {
				if strings.Contains(stdout.String(), s) {
					t.Errorf("stdout should not contain %q: %q", s, stdout.String())
				}
			}
			for _, s := range tt.stderrHas {
				if !strings.Contains(stderr.String(), s) {
					t.Errorf("stderr missing %q: %q", s, stderr.String())
				}
			}
		})
	}

	t.Run("stdout results print text with headers", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv("")
		printResultsWithWriter([]ConversionResult{
			{InputPath: "a.html", Text: "A", Stdout: true},
			{InputPath: "b.html", Text: "B", Stdout: true},
		}, false, false, env)

		want := "==> a.html <==\nA\n==> b.html <==\nB\n"
		if stdout.String() != want {
			t.Errorf("stdout = %q, want %q", stdout.String(), want)
		}
		if !strings.Contains(stderr.String(), "2 succeeded, 0 failed") {
			t.Errorf("summary should go to stderr, got %q", stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestBatchError - Failure summary
// ---------------------------------------------------------------------------

func TestBatchError(t *testing.T) {
	t.Parallel()

	if err := batchError([]ConversionResult{{InputPath: "a"}}, 0); err != nil {
		t.Errorf("batchError() = %v, want nil", err)
	}

	single := fmt.Errorf("%w: disk on fire", ErrReadInput)
	if err := batchError([]ConversionResult{{InputPath: "a", Err: single}}, 1); !errors.Is(err, ErrReadInput) {
		t.Errorf("single failure should keep its cause, got %v", err)
	}

	err := batchError([]ConversionResult{
		{InputPath: "b", Err: single},
		{InputPath: "a"},
		{InputPath: "c", Err: single},
	}, 2)
	if !errors.Is(err, ErrConversionFailed) {
		t.Fatalf("batchError() = %v, want ErrConversionFailed", err)
	}
	if !strings.Contains(err.Error(), "2 of 3 file(s): b, c") {
		t.Errorf("message = %q", err.Error())
	}
}

// ---------------------------------------------------------------------------
// TestConverterOptions - Config to converter options
// ---------------------------------------------------------------------------

func TestConverterOptions(t *testing.T) {
	t.Parallel()

	width := 40
	cfg := config.DefaultConfig()
	cfg.Conversion.BaseURL = "https://example.com/"
	cfg.Conversion.Width = &width
	cfg.Conversion.AllowedTags = "b"
	cfg.Rules = []config.RuleConfig{{Pattern: "(?i)<u>(.*?)</u>", Replacement: "_${1}_"}}

	opts, err := converterOptions(cfg)
	if err != nil {
		t.Fatalf("converterOptions() error = %v", err)
	}
	conv, err := html2text.NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	if conv.BaseURL() != "https://example.com" {
		t.Errorf("BaseURL() = %q", conv.BaseURL())
	}
	if conv.Width() != 40 {
		t.Errorf("Width() = %d, want 40", conv.Width())
	}
	if conv.AllowedTags() != "b" {
		t.Errorf("AllowedTags() = %q, want b", conv.AllowedTags())
	}
	if got := conv.Convert("<u>x</u>", "en"); got != "_x_" {
		t.Errorf("custom rule not applied, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestResolveConfig - Config lookup
// ---------------------------------------------------------------------------

func TestResolveConfig(t *testing.T) {
	t.Parallel()

	t.Run("no name uses base config copy", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		cfg, err := resolveConfig("", &envConfig{}, env)
		if err != nil {
			t.Fatalf("resolveConfig() error = %v", err)
		}
		if cfg == env.Config {
			t.Error("resolveConfig() should return a copy of the base config")
		}
	})

	t.Run("env path used when flag empty", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "mail.yaml")
		writeFile(t, path, "conversion:\n  locale: cs\n")

		env, _, _ := testEnv("")
		cfg, err := resolveConfig("", &envConfig{ConfigPath: path}, env)
		if err != nil {
			t.Fatalf("resolveConfig() error = %v", err)
		}
		if cfg.Conversion.Locale != "cs" {
			t.Errorf("Locale = %q, want cs", cfg.Conversion.Locale)
		}
	})

	t.Run("missing named config carries hint", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		_, err := resolveConfig("no-such-config-name-for-tests", &envConfig{}, env)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "hint:") {
			t.Errorf("error should carry a hint, got %q", err.Error())
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunConvert - End-to-end conversion
// ---------------------------------------------------------------------------

func TestRunConvert(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, env *Environment, args ...string) error {
		t.Helper()
		flags, positional, err := parseConvertFlags(args)
		if err != nil {
			t.Fatalf("parseConvertFlags() error = %v", err)
		}
		return runConvert(context.Background(), positional, flags, env)
	}

	t.Run("directory batch into output dir", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		writeFile(t, filepath.Join(in, "one.html"), "<p>One</p>")
		writeFile(t, filepath.Join(in, "nested", "two.htm"), "<p>Two</p>")
		out := filepath.Join(t.TempDir(), "text")

		env, stdout, _ := testEnv("")
		if err := run(t, env, in, "-o", out, "-w", "2"); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}

		if got := readFile(t, filepath.Join(out, "one.txt")); got != "One\n" {
			t.Errorf("one.txt = %q, want %q", got, "One\n")
		}
		if got := readFile(t, filepath.Join(out, "nested", "two.txt")); got != "Two\n" {
			t.Errorf("two.txt = %q, want %q", got, "Two\n")
		}
		if !strings.Contains(stdout.String(), "2 succeeded, 0 failed") {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("conversion flags applied", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(t.TempDir(), "mail.html")
		writeFile(t, in, `<p><a href="/docs">docs</a> <b>now</b></p>`)

		env, _, _ := testEnv("")
		err := run(t, env, in, "-q", "--base-url", "https://example.com/", "--locale", "cs", "--allowed-tags", "b")
		if err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}

		got := readFile(t, strings.TrimSuffix(in, ".html")+".txt")
		for _, want := range []string{"docs [1]", "Odkazy:", "[1] https://example.com/docs"} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q: %q", want, got)
			}
		}
	})

	t.Run("markdown input", func(t *testing.T) {
		t.Parallel()

		in := filepath.Join(t.TempDir(), "notes.md")
		writeFile(t, in, "# Title\n\nSome *text*.\n")

		env, stdout, _ := testEnv("")
		if err := run(t, env, in, "--markdown", "--stdout"); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		for _, want := range []string{"TITLE", "_text_"} {
			if !strings.Contains(stdout.String(), want) {
				t.Errorf("stdout missing %q: %q", want, stdout.String())
			}
		}
		if _, err := os.Stat(strings.TrimSuffix(in, ".md") + ".txt"); err == nil {
			t.Error("--stdout should not write a file")
		}
	})

	t.Run("stdin to output file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "sub", "plain.txt")
		env, _, _ := testEnv("<p>piped</p>")
		if err := run(t, env, "-", "-o", out); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if got := readFile(t, out); got != "piped\n" {
			t.Errorf("output = %q, want %q", got, "piped\n")
		}
	})

	t.Run("empty stdin", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		if err := run(t, env, "-"); !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})

	t.Run("watch with stdin", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("<p>x</p>")
		if err := run(t, env, "-", "--watch"); !errors.Is(err, ErrWatchStdin) {
			t.Errorf("error = %v, want ErrWatchStdin", err)
		}
	})

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		err := run(t, env)
		if !errors.Is(err, ErrNoInput) {
			t.Fatalf("error = %v, want ErrNoInput", err)
		}
		if !strings.Contains(err.Error(), "hint:") {
			t.Errorf("error should carry a hint, got %q", err.Error())
		}
	})

	t.Run("input dir from base config", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		writeFile(t, filepath.Join(in, "a.html"), "<p>A</p>")

		env, _, _ := testEnv("")
		env.Config.Input.DefaultDir = in
		if err := run(t, env, "-q"); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if got := readFile(t, filepath.Join(in, "a.txt")); got != "A\n" {
			t.Errorf("a.txt = %q", got)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("")
		if err := run(t, env, t.TempDir()); !errors.Is(err, ErrNoFiles) {
			t.Errorf("error = %v, want ErrNoFiles", err)
		}
	})

	t.Run("negative width", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("<p>x</p>")
		err := run(t, env, "-", "--width", "-5")
		if !errors.Is(err, html2text.ErrInvalidWidth) {
			t.Fatalf("error = %v, want ErrInvalidWidth", err)
		}
		if !strings.Contains(err.Error(), "--width 0") {
			t.Errorf("error should carry the width hint, got %q", err.Error())
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv("<p>x</p>")
		if err := run(t, env, "-", "--log-level", "loud"); !errors.Is(err, ErrInvalidLogLevel) {
			t.Errorf("error = %v, want ErrInvalidLogLevel", err)
		}
	})

	t.Run("unlabelled locale warns", func(t *testing.T) {
		t.Parallel()

		env, _, stderr := testEnv("<p>x</p>")
		if err := run(t, env, "-", "--locale", "fr"); err != nil {
			t.Fatalf("runConvert() error = %v", err)
		}
		if !strings.Contains(stderr.String(), `locale "fr" has no links label`) {
			t.Errorf("stderr = %q", stderr.String())
		}
	})
}
