package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/phuslu/log"

	html2text "github.com/alnah/go-html2text"
	"github.com/alnah/go-html2text/internal/config"
	"github.com/alnah/go-html2text/internal/fileutil"
	"github.com/alnah/go-html2text/internal/hints"
	"github.com/alnah/go-html2text/internal/pipeline"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadInput        = errors.New("failed to read input file")
	ErrWriteOutput      = errors.New("failed to write output file")
	ErrConverterInit    = errors.New("failed to initialize converter")
	ErrConversionFailed = errors.New("conversion failed")
	ErrWatchStdin       = errors.New("--watch cannot read from stdin")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(html, locale string) string
	ConvertMarkdown(ctx context.Context, markdown, locale string) (string, error)
}

// Compile-time interface implementation check.
var _ Converter = (*html2text.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() Converter
	Release(Converter)
	Size() int
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Text       string // converted text when Stdout is set
	Stdout     bool   // printed instead of written
	Err        error
	Duration   time.Duration
}

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	locale   string
	markdown bool
	stdout   bool
}

// runConvertCmd parses convert flags and runs the conversion.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		return err
	}
	return runConvert(ctx, positional, flags, env)
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}
	envCfg := loadEnvConfig()

	cfg, err := resolveConfig(flags.common.config, envCfg, env)
	if err != nil {
		return err
	}
	if err := applyEnvConfig(envCfg, cfg); err != nil {
		return err
	}
	if err := mergeFlags(flags, cfg); err != nil {
		return err
	}

	logger, err := newLogger(env.Stderr, cfg.Log.Level, flags.common.quiet, flags.common.verbose)
	if err != nil {
		return err
	}

	opts, err := converterOptions(cfg)
	if err != nil {
		return err
	}
	// Built once up front so option errors surface before any file is touched.
	conv, err := html2text.NewConverter(opts...)
	if err != nil {
		return withConverterHint(err)
	}

	params := &conversionParams{
		locale:   cfg.Conversion.Locale,
		markdown: flags.conversion.markdown,
		stdout:   flags.output.stdout,
	}
	if !flags.common.quiet {
		warnUnlabelledLocale(env.Stderr, params.locale)
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output.path, cfg)

	if inputPath == stdinArg {
		if flags.output.watch {
			return ErrWatchStdin
		}
		return convertStdin(ctx, conv, outputDir, params, env)
	}

	exts := inputExtensions(params.markdown)
	files, err := discoverFiles(inputPath, outputDir, exts)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 && !flags.output.watch {
		return fmt.Errorf("%w in %s (looking for %s)", ErrNoFiles, inputPath, strings.Join(exts, ", "))
	}

	poolSize := resolvePoolSize(flags.workers, envCfg.Workers)
	pool := NewConverterPool(poolSize, sharedFactory(conv))
	logger.Debug().Int("workers", poolSize).Int("files", len(files)).Str("locale", params.locale).Msg("starting conversion")

	results := convertBatch(ctx, pool, files, params)
	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)

	if flags.output.watch {
		return runWatch(ctx, &watchTarget{
			root:      inputPath,
			outputDir: outputDir,
			exts:      exts,
		}, pool, params, flags, logger, env)
	}

	return batchError(results, failed)
}

// resolveConfig loads the named config file, falling back to HTML2TEXT_CONFIG
// and then to the environment's base configuration.
func resolveConfig(name string, envCfg *envConfig, env *Environment) (*config.Config, error) {
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return env.baseConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// converterOptions translates the merged config into converter options.
// Conversion values pass through OptionsFromMap so the CLI and loosely
// typed callers share one coercion path.
func converterOptions(cfg *config.Config) ([]html2text.Option, error) {
	values := map[string]any{}
	if cfg.Conversion.BaseURL != "" {
		values["baseUrl"] = cfg.Conversion.BaseURL
	}
	if cfg.Conversion.Width != nil {
		values["width"] = *cfg.Conversion.Width
	}
	if cfg.Conversion.AllowedTags != "" {
		values["allowedTags"] = cfg.Conversion.AllowedTags
	}

	opts, err := html2text.OptionsFromMap(values)
	if err != nil {
		return nil, err
	}
	for _, r := range cfg.Rules {
		opts = append(opts, html2text.WithRule(r.Pattern, r.Replacement))
	}
	return opts, nil
}

// withConverterHint appends an actionable hint to converter construction errors.
func withConverterHint(err error) error {
	switch {
	case errors.Is(err, html2text.ErrInvalidRule):
		return fmt.Errorf("%w%s", err, hints.ForInvalidRule())
	case errors.Is(err, html2text.ErrInvalidWidth):
		return fmt.Errorf("%w%s", err, hints.ForInvalidWidth())
	}
	return err
}

// warnUnlabelledLocale notes when a locale falls back to the default links label.
func warnUnlabelledLocale(w io.Writer, locale string) {
	if locale == "" {
		return
	}
	labelled := pipeline.LabelledLocales()
	if slices.Contains(labelled, locale) {
		return
	}
	fmt.Fprintf(w, "warning: locale %q has no links label, using %q%s\n",
		locale, pipeline.DefaultLinksLabel, hints.ForUnknownLocale(labelled))
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", fmt.Errorf("%w%s", ErrNoInput, hints.ForNoInput())
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// convertStdin converts standard input and prints the result,
// or writes it when -o names a file.
func convertStdin(ctx context.Context, conv Converter, output string, params *conversionParams, env *Environment) error {
	data, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: stdin is empty%s", ErrNoInput, hints.ForStdin())
	}

	text, err := render(ctx, conv, string(data), params)
	if err != nil {
		return err
	}

	if output == "" || params.stdout {
		fmt.Fprintln(env.Stdout, text)
		return nil
	}

	path := output
	if !isOutputFile(output) {
		path = filepath.Join(output, "stdin."+outputExtension)
	}
	return writeOutput(path, text)
}

// render converts one document according to the input mode.
func render(ctx context.Context, conv Converter, content string, params *conversionParams) (string, error) {
	if params.markdown {
		return conv.ConvertMarkdown(ctx, content, params.locale)
	}
	return conv.Convert(content, params.locale), nil
}

// writeOutput creates the parent directory and writes text atomically.
func writeOutput(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}
	if text != "" {
		text += "\n"
	}
	if err := fileutil.WriteFileAtomic(path, []byte(text), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// convertBatch processes files concurrently using the converter pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			if conv == nil {
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ErrConverterInit,
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv Converter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		result.Duration = time.Since(start)
		return result
	}

	text, err := render(ctx, conv, string(content), params)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if params.stdout {
		result.Text = text
		result.Stdout = true
		result.Duration = time.Since(start)
		return result
	}

	result.Err = writeOutput(f.OutputPath, text)
	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Returns the number of failed conversions.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if r.Stdout {
			if len(results) > 1 {
				fmt.Fprintf(env.Stdout, "==> %s <==\n", r.InputPath)
			}
			fmt.Fprintln(env.Stdout, r.Text)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		w := env.Stdout
		if results[0].Stdout {
			w = env.Stderr
		}
		fmt.Fprintf(w, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// batchError summarizes failures. A lone failure is returned as is so its
// exit code reflects the cause.
func batchError(results []ConversionResult, failed int) error {
	if failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return results[0].Err
	}
	paths := make([]string, 0, failed)
	for _, r := range results {
		if r.Err != nil {
			paths = append(paths, r.InputPath)
		}
	}
	sort.Strings(paths)
	return fmt.Errorf("%w: %d of %d file(s): %s", ErrConversionFailed, failed, len(results), strings.Join(paths, ", "))
}

// logResults reports a batch through the diagnostic logger.
func logResults(logger *log.Logger, results []ConversionResult) {
	summary := countResults(results)
	logger.Info().Int("succeeded", summary.Succeeded).Int("failed", summary.Failed).Msg("batch finished")
}
