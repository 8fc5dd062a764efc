package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-html2text/internal/config"
)

// ruleSeparator splits a --rule value into pattern and replacement.
const ruleSeparator = "=>"

// Sentinel errors for flag parsing.
var (
	ErrInvalidFlags    = errors.New("invalid flags")
	ErrInvalidRuleFlag = errors.New("invalid --rule value")
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config   string
	quiet    bool
	verbose  bool
	logLevel string
}

// conversionFlags holds flags that map onto converter options.
type conversionFlags struct {
	baseURL     string
	width       int
	widthSet    bool // --width given; 0 is a meaningful value
	allowedTags string
	locale      string
	rules       []string
	markdown    bool
}

// outputFlags holds output destination and mode flags.
type outputFlags struct {
	path   string
	stdout bool
	watch  bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	conversion conversionFlags
	output     outputFlags
	workers    int
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// addConversionFlags adds converter option flags to a FlagSet.
func addConversionFlags(fs *flag.FlagSet, f *conversionFlags) {
	fs.StringVar(&f.baseURL, "base-url", "", "prefix for relative link targets")
	fs.IntVar(&f.width, "width", 0, "wrap width in columns (0 disables wrapping)")
	fs.StringVar(&f.allowedTags, "allowed-tags", "", "tags kept verbatim, e.g. \"<b><a>\" or \"b,a\"")
	fs.StringVarP(&f.locale, "locale", "l", "", "locale for the links label and case mapping")
	fs.StringArrayVar(&f.rules, "rule", nil, "extra rule PATTERN=>REPLACEMENT (repeatable)")
	fs.BoolVar(&f.markdown, "markdown", false, "treat input as markdown")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.path, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.stdout, "stdout", false, "print results instead of writing files")
	fs.BoolVar(&f.watch, "watch", false, "reconvert inputs when they change")
}

// parseConvertFlags parses convert command flags and returns positional args.
// flag.ErrHelp is returned unwrapped for -h/--help.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	f := &convertFlags{}

	addCommonFlags(fs, &f.common)
	addConversionFlags(fs, &f.conversion)
	addOutputFlags(fs, &f.output)
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	f.conversion.widthSet = fs.Changed("width")

	return f, fs.Args(), nil
}

// parseRuleFlag splits "PATTERN=>REPLACEMENT" at the first separator.
// The replacement may be empty; the pattern may not.
func parseRuleFlag(s string) (config.RuleConfig, error) {
	pattern, replacement, ok := strings.Cut(s, ruleSeparator)
	if !ok {
		return config.RuleConfig{}, fmt.Errorf("%w: %q (want PATTERN%sREPLACEMENT)", ErrInvalidRuleFlag, s, ruleSeparator)
	}
	if pattern == "" {
		return config.RuleConfig{}, fmt.Errorf("%w: %q has an empty pattern", ErrInvalidRuleFlag, s)
	}
	return config.RuleConfig{Pattern: pattern, Replacement: replacement}, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *convertFlags, cfg *config.Config) error {
	if f.conversion.baseURL != "" {
		cfg.Conversion.BaseURL = f.conversion.baseURL
	}
	if f.conversion.widthSet {
		w := f.conversion.width
		cfg.Conversion.Width = &w
	}
	if f.conversion.allowedTags != "" {
		cfg.Conversion.AllowedTags = f.conversion.allowedTags
	}
	if f.conversion.locale != "" {
		cfg.Conversion.Locale = f.conversion.locale
	}
	if f.common.logLevel != "" {
		cfg.Log.Level = f.common.logLevel
	}

	// Flag rules run after config rules.
	for _, raw := range f.conversion.rules {
		rule, err := parseRuleFlag(raw)
		if err != nil {
			return err
		}
		cfg.Rules = append(cfg.Rules, rule)
	}

	return nil
}
