package main

import (
	"io"
	"os"

	"github.com/alnah/go-html2text/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O streams and the base configuration.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Config *config.Config // used when no config file is named
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
		Config: config.DefaultConfig(),
	}
}

// baseConfig returns a private copy of env.Config so a run can merge
// overrides without touching the shared value.
func (e *Environment) baseConfig() *config.Config {
	if e.Config == nil {
		return config.DefaultConfig()
	}
	cfg := *e.Config
	cfg.Rules = append([]config.RuleConfig(nil), e.Config.Rules...)
	if e.Config.Conversion.Width != nil {
		w := *e.Config.Conversion.Width
		cfg.Conversion.Width = &w
	}
	return &cfg
}
