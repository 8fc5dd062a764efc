package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alnah/go-html2text/internal/fileutil"
	"github.com/alnah/go-html2text/internal/pipeline"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// AppName names the per-user config directory.
const AppName = "go-html2text"

// Extensions tried, in order, when resolving a config name.
var configExtensions = []string{".yaml", ".yml", ".toml"}

// Config holds all configuration for the CLI.
type Config struct {
	Input      InputConfig      `yaml:"input" toml:"input"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
	Conversion ConversionConfig `yaml:"conversion" toml:"conversion"`
	Rules      []RuleConfig     `yaml:"rules" toml:"rules" validate:"max=256,dive"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir" validate:"max=4096"` // empty = must specify
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir" toml:"defaultDir" validate:"max=4096"` // empty = next to source
}

// ConversionConfig mirrors the converter options.
type ConversionConfig struct {
	BaseURL     string `yaml:"baseUrl" toml:"baseUrl" validate:"omitempty,max=2048,url"`
	Width       *int   `yaml:"width" toml:"width" validate:"omitempty,gte=0,lte=100000"` // nil = default
	AllowedTags string `yaml:"allowedTags" toml:"allowedTags" validate:"max=1024"`
	Locale      string `yaml:"locale" toml:"locale" validate:"omitempty,max=35"`
}

// RuleConfig is an extra substitution appended after the built-in rules.
type RuleConfig struct {
	Pattern     string `yaml:"pattern" toml:"pattern" validate:"required,max=4096"`
	Replacement string `yaml:"replacement" toml:"replacement" validate:"max=4096"`
}

// LogConfig defines CLI logging options.
type LogConfig struct {
	Level string `yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key rather than the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and compiles every rule pattern.
// Called automatically by LoadConfig, but available for configs built in code.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrConfigInvalid, describe(verrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	for i, r := range c.Rules {
		if _, err := pipeline.CompileRule(r.Pattern); err != nil {
			return fmt.Errorf("%w: rules[%d].pattern: %v", ErrConfigInvalid, i, err)
		}
	}

	return nil
}

// describe renders a validation failure as "conversion.width: must be gte 0".
func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest // drop the root struct name
	}
	if fe.Param() == "" {
		return fmt.Sprintf("%s: failed %q check", field, fe.Tag())
	}
	return fmt.Sprintf("%s: must satisfy %s=%s", field, fe.Tag(), fe.Param())
}

// DefaultConfig returns a configuration that leaves every converter default in place.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = ResolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := Decode(data, FormatForPath(configPath), cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ResolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml
// Tries locations in order: current directory, the user config directory
// ($XDG_CONFIG_HOME/go-html2text on Linux).
func ResolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// SearchPaths lists the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	paths := make([]string, 0, len(configExtensions)*2) // 2 locations

	for _, ext := range configExtensions {
		paths = append(paths, name+ext)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range configExtensions {
			paths = append(paths, filepath.Join(dir, AppName, name+ext))
		}
	}

	return paths
}
