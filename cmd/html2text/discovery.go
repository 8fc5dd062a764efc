package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-html2text/internal/fileutil"
)

// outputExtension is given to every converted file.
const outputExtension = "txt"

// stdinArg selects standard input as the source.
const stdinArg = "-"

// Input extensions per mode.
var (
	htmlExtensions     = []string{".html", ".htm"}
	markdownExtensions = []string{".md", ".markdown"}
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("unsupported input extension")
	ErrNoFiles            = errors.New("no input files found")
	ErrOutputFileForDir   = errors.New("output must be a directory when converting a directory")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// maxWorkers bounds --workers.
const maxWorkers = 64

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// inputExtensions returns the extensions accepted in the given mode.
func inputExtensions(markdown bool) []string {
	if markdown {
		return markdownExtensions
	}
	return htmlExtensions
}

// discoverFiles finds all files to convert under inputPath.
// Hidden files and directories are skipped during the walk.
func discoverFiles(inputPath, outputDir string, exts []string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateInputExtension(inputPath, exts); err != nil {
			return nil, err
		}
		outPath, err := resolveOutputPath(inputPath, outputDir, "")
		if err != nil {
			return nil, err
		}
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	if isOutputFile(outputDir) {
		return nil, fmt.Errorf("%w: %s", ErrOutputFileForDir, outputDir)
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if path != inputPath && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !fileutil.HasExtension(path, exts...) {
			return nil
		}
		outPath, err := resolveOutputPath(path, outputDir, inputPath)
		if err != nil {
			return err
		}
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the text output path for an input file.
// With no outputDir the file lands next to its source; with a directory
// input the relative tree under baseInputDir is mirrored.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) (string, error) {
	name, err := fileutil.ReplaceExtension(filepath.Base(inputPath), outputExtension)
	if err != nil {
		return "", err
	}

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name), nil
	}

	if isOutputFile(outputDir) {
		return outputDir, nil
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name), nil
		}
	}

	return filepath.Join(outputDir, name), nil
}

// isOutputFile reports whether -o names a file rather than a directory.
func isOutputFile(output string) bool {
	return fileutil.HasExtension(output, "."+outputExtension)
}

// isHidden reports whether the base name starts with a dot.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// validateInputExtension checks that the file has one of exts.
func validateInputExtension(path string, exts []string) error {
	if !fileutil.HasExtension(path, exts...) {
		return fmt.Errorf("%w: got %q, want one of %s", ErrInvalidExtension, filepath.Ext(path), strings.Join(exts, ", "))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > maxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}
