package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phuslu/log"

	"github.com/alnah/go-html2text/internal/fileutil"
	"github.com/alnah/go-html2text/internal/hints"
)

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// ErrWatch is returned when the file watcher cannot be set up.
var ErrWatch = errors.New("failed to watch input")

// watchTarget describes what --watch observes and where output goes.
type watchTarget struct {
	root      string
	outputDir string
	exts      []string
}

// runWatch reconverts changed inputs until ctx is cancelled.
// Directories are watched recursively; new subdirectories are added as they appear.
func runWatch(ctx context.Context, t *watchTarget, pool Pool, params *conversionParams, flags *convertFlags, logger *log.Logger, env *Environment) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrWatch, err, hints.ForWatchLimit())
	}
	defer watcher.Close()

	info, err := os.Stat(t.root)
	if err != nil {
		return err
	}

	var single, baseDir string
	if info.IsDir() {
		baseDir = t.root
		err = addWatchDirs(watcher, t.root)
	} else {
		single = t.root
		// The parent is watched so editors that replace the file are still seen.
		err = watcher.Add(filepath.Dir(t.root))
	}
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrWatch, err, hints.ForWatchLimit())
	}

	logger.Info().Str("path", t.root).Msg("watching for changes")

	pending := map[string]struct{}{}
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("watch stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if baseDir != "" && ev.Has(fsnotify.Create) && fileutil.DirExists(ev.Name) && !isHidden(ev.Name) {
				if err := addWatchDirs(watcher, ev.Name); err != nil {
					logger.Warn().Err(err).Str("path", ev.Name).Msg("cannot watch new directory")
				}
				continue
			}
			path, ok := changedInput(ev, t.exts, single)
			if !ok {
				continue
			}
			logger.Debug().Str("path", path).Str("op", ev.Op.String()).Msg("input changed")
			pending[path] = struct{}{}
			flush = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")

		case <-flush:
			flush = nil
			files, err := pendingFiles(pending, t.outputDir, baseDir)
			clear(pending)
			if err != nil {
				logger.Error().Err(err).Msg("resolving output paths")
				continue
			}
			results := convertBatch(ctx, pool, files, params)
			printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
			logResults(logger, results)
		}
	}
}

// addWatchDirs adds root and every non-hidden directory below it.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// changedInput reports the input file an event should reconvert.
// Only creates and writes of existing, non-hidden files with an accepted
// extension count; when only is set, events for other files are ignored.
func changedInput(ev fsnotify.Event, exts []string, only string) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(ev.Name) || !fileutil.HasExtension(ev.Name, exts...) {
		return "", false
	}
	if only != "" && filepath.Clean(ev.Name) != filepath.Clean(only) {
		return "", false
	}
	if !fileutil.FileExists(ev.Name) {
		return "", false
	}
	return ev.Name, true
}

// pendingFiles turns the changed paths into conversion jobs, sorted by input path.
func pendingFiles(pending map[string]struct{}, outputDir, baseDir string) ([]FileToConvert, error) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make([]FileToConvert, 0, len(paths))
	for _, p := range paths {
		out, err := resolveOutputPath(p, outputDir, baseDir)
		if err != nil {
			return nil, err
		}
		files = append(files, FileToConvert{InputPath: p, OutputPath: out})
	}
	return files, nil
}
