package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	html2text "github.com/alnah/go-html2text"
	"github.com/alnah/go-html2text/internal/config"
)

// envPrefix marks the variables this CLI reads.
const envPrefix = "HTML2TEXT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring a config file.
type envConfig struct {
	ConfigPath  string // HTML2TEXT_CONFIG: config file name or path
	BaseURL     string // HTML2TEXT_BASE_URL: prefix for relative links
	Width       string // HTML2TEXT_WIDTH: wrap width, validated on apply
	AllowedTags string // HTML2TEXT_ALLOWED_TAGS: tags kept verbatim
	Locale      string // HTML2TEXT_LOCALE: links label and case mapping
	Workers     int    // HTML2TEXT_WORKERS: parallel workers
	LogLevel    string // HTML2TEXT_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid HTML2TEXT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HTML2TEXT_CONFIG":       true,
	"HTML2TEXT_BASE_URL":     true,
	"HTML2TEXT_WIDTH":        true,
	"HTML2TEXT_ALLOWED_TAGS": true,
	"HTML2TEXT_LOCALE":       true,
	"HTML2TEXT_WORKERS":      true,
	"HTML2TEXT_LOG_LEVEL":    true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("HTML2TEXT_CONFIG"),
		BaseURL:     os.Getenv("HTML2TEXT_BASE_URL"),
		Width:       strings.TrimSpace(os.Getenv("HTML2TEXT_WIDTH")),
		AllowedTags: os.Getenv("HTML2TEXT_ALLOWED_TAGS"),
		Locale:      os.Getenv("HTML2TEXT_LOCALE"),
		LogLevel:    os.Getenv("HTML2TEXT_LOG_LEVEL"),
	}

	// Invalid worker counts are ignored; auto sizing applies.
	if workers := os.Getenv("HTML2TEXT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized HTML2TEXT_* variable.
// Helps catch typos like HTML2TEXT_WIDHT.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides config values with the environment variables that are set.
// Flags are merged afterwards, giving: flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) error {
	if env.BaseURL != "" {
		cfg.Conversion.BaseURL = env.BaseURL
	}
	if env.Width != "" {
		w, err := strconv.Atoi(env.Width)
		if err != nil {
			return fmt.Errorf("%w: HTML2TEXT_WIDTH=%q is not an integer", html2text.ErrInvalidOption, env.Width)
		}
		cfg.Conversion.Width = &w
	}
	if env.AllowedTags != "" {
		cfg.Conversion.AllowedTags = env.AllowedTags
	}
	if env.Locale != "" {
		cfg.Conversion.Locale = env.Locale
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	return nil
}
