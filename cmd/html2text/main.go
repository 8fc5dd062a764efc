package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-html2text/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for a first argument that is neither a command nor an input.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	setMaxProcs(verboseRequested(os.Args[1:]))
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool) {
	logf := func(string, ...any) {}
	if verbose {
		logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}

// verboseRequested reports whether -v/--verbose appears before flag parsing.
func verboseRequested(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// runMain dispatches the command and returns the process exit code.
// A first argument that looks like an input runs convert implicitly.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	if cmd == "-h" || cmd == "--help" {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if !isCommand(cmd) {
		if !looksLikeInput(cmd) {
			fmt.Fprintf(env.Stderr, "error: %v: %s\n", ErrUnknownCommand, cmd)
			printUsage(env.Stderr)
			return exitCodeFor(ErrUnknownCommand)
		}
		cmd, rest = "convert", args[1:]
	}

	switch cmd {
	case "version":
		fmt.Fprintf(env.Stdout, "html2text %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(rest, env)
		return ExitSuccess
	}

	err := runConvertCmd(ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		printConvertUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		if errors.Is(err, ErrInvalidFlags) {
			fmt.Fprintln(env.Stderr, "Run 'html2text help convert' for usage.")
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// isCommand reports whether s names a subcommand.
func isCommand(s string) bool {
	switch s {
	case "convert", "version", "help":
		return true
	}
	return false
}

// looksLikeInput reports whether s is stdin or has an accepted input extension.
func looksLikeInput(s string) bool {
	if s == stdinArg {
		return true
	}
	return fileutil.HasExtension(s, slices.Concat(htmlExtensions, markdownExtensions)...)
}
