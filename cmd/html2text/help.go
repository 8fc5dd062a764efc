package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2text <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert HTML (or markdown) files to plain text")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'html2text help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2text convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert HTML files to plain text.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .html/.htm file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output .txt file or directory")
	fmt.Fprintln(w, "      --stdout               Print results instead of writing files")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --markdown             Read .md/.markdown input")
	fmt.Fprintln(w, "      --watch                Reconvert inputs when they change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "  -l, --locale <code>        Links label and case mapping: cs, de, en, hu, ...")
	fmt.Fprintln(w, "      --base-url <url>       Prefix for relative link targets")
	fmt.Fprintln(w, "      --width <n>            Wrap width in columns (0 = no wrapping)")
	fmt.Fprintln(w, "      --allowed-tags <tags>  Tags kept verbatim: \"<b><a>\" or \"b,a\"")
	fmt.Fprintln(w, "      --rule <p=>r>          Extra rule PATTERN=>REPLACEMENT (repeatable)")
	fmt.Fprintln(w, "                             RE2 syntax; reference groups as ${1}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show detailed timing")
	fmt.Fprintln(w, "      --log-level <level>    debug, info, warn, error")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTML2TEXT_CONFIG, HTML2TEXT_BASE_URL, HTML2TEXT_WIDTH,")
	fmt.Fprintln(w, "  HTML2TEXT_ALLOWED_TAGS, HTML2TEXT_LOCALE, HTML2TEXT_WORKERS,")
	fmt.Fprintln(w, "  HTML2TEXT_LOG_LEVEL")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: html2text version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: html2text help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
