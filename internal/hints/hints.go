// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"runtime"
	"strings"
)

// StdinIsTerminal reports whether stdin is attached to a terminal rather than a pipe.
var StdinIsTerminal = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// ForNoInput returns hints for a missing input argument.
func ForNoInput() string {
	return format("pass an .html file, a directory, or - for stdin; or set input.defaultDir in the config")
}

// ForStdin returns a hint when "-" was given but nothing is piped in.
func ForStdin() string {
	if !StdinIsTerminal() {
		return ""
	}
	return format("stdin is a terminal; pipe HTML in, e.g. curl -s URL | html2text convert -")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path to suggest
	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), "go-html2text/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInvalidRule returns hints for rule patterns that fail to compile.
func ForInvalidRule() string {
	return format("rules use RE2 syntax without backreferences or lookaround; reference groups as ${1}")
}

// ForInvalidWidth returns hints for rejected wrap widths.
func ForInvalidWidth() string {
	return format("use --width 0 to disable wrapping")
}

// ForUnknownLocale returns hints listing the locales with a dedicated label.
func ForUnknownLocale(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("labelled locales: " + strings.Join(available, ", "))
}

// ForWatchLimit returns hints for watcher setup failures.
func ForWatchLimit() string {
	var hints []string

	if runtime.GOOS == "linux" {
		hints = append(hints, "raise fs.inotify.max_user_watches")
	}
	hints = append(hints, "watch a smaller directory")

	return formatHints(hints)
}

// slashed normalizes separators so Windows paths match too.
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
