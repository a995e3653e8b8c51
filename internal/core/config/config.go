// Package config handles configuration loading and validation for shelldock.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/shelldock/internal/runner"
	"github.com/hay-kot/shelldock/internal/terminal"
)

// Shell backends.
const (
	BackendPipe = "pipe"
	BackendPty  = "pty"
)

// Config holds the application configuration.
type Config struct {
	Shell    ShellConfig     `yaml:"shell"`
	Terminal TerminalConfig  `yaml:"terminal"`
	History  HistoryConfig   `yaml:"history"`
	Output   OutputConfig    `yaml:"output"`
	Runners  []runner.Runner `yaml:"runners"`
	DataDir  string          `yaml:"-"` // set by caller, not from config file
}

// ShellConfig selects and configures the child shell.
type ShellConfig struct {
	Path       string   `yaml:"path"`
	Args       []string `yaml:"args"`
	Backend    string   `yaml:"backend"`     // pipe or pty
	Encoding   string   `yaml:"encoding"`    // output encoding, e.g. utf-8, windows-1252, auto
	Prompt     *string  `yaml:"prompt"`      // template with {{ .Dir }}; "" leaves prompting to the shell
	LineEnding string   `yaml:"line_ending"` // appended to submitted commands
}

// TerminalConfig holds session lifecycle settings.
type TerminalConfig struct {
	TerminateTimeout time.Duration `yaml:"terminate_timeout"`
}

// HistoryConfig controls persisted command history.
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries"`
}

// OutputConfig controls the Output panel.
type OutputConfig struct {
	MaxLines int `yaml:"max_lines"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	sh := terminal.DefaultShell()
	return Config{
		Shell: ShellConfig{
			Path:     sh.Path,
			Args:     sh.Args,
			Backend:  BackendPipe,
			Encoding: "utf-8",
		},
		Terminal: TerminalConfig{
			TerminateTimeout: terminal.DefaultTerminateTimeout,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 500,
		},
		Output: OutputConfig{
			MaxLines: 1000,
		},
		Runners: runner.DefaultRunners(),
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Shell.Path == "" {
		c.Shell.Path = defaults.Shell.Path
		if len(c.Shell.Args) == 0 {
			c.Shell.Args = defaults.Shell.Args
		}
	}
	if c.Shell.Backend == "" {
		c.Shell.Backend = defaults.Shell.Backend
	}
	if c.Shell.Encoding == "" {
		c.Shell.Encoding = defaults.Shell.Encoding
	}
	if c.Terminal.TerminateTimeout == 0 {
		c.Terminal.TerminateTimeout = defaults.Terminal.TerminateTimeout
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}
	if c.Output.MaxLines == 0 {
		c.Output.MaxLines = defaults.Output.MaxLines
	}
	if c.Runners == nil {
		c.Runners = defaults.Runners
	}
}

// Validate checks that the configuration is usable. It returns
// criterio.FieldErrors describing every invalid field.
func (c *Config) Validate() error {
	var errs criterio.FieldErrors

	if c.Shell.Path == "" {
		errs = append(errs, criterio.FieldError{Field: "shell.path", Err: fmt.Errorf("cannot be empty")})
	}

	switch c.Shell.Backend {
	case BackendPipe, BackendPty:
	default:
		errs = append(errs, criterio.FieldError{
			Field: "shell.backend",
			Err:   fmt.Errorf("must be %q or %q, got %q", BackendPipe, BackendPty, c.Shell.Backend),
		})
	}

	if c.DataDir == "" {
		errs = append(errs, criterio.FieldError{Field: "data_dir", Err: fmt.Errorf("data directory cannot be empty")})
	}

	if c.Terminal.TerminateTimeout < 0 {
		errs = append(errs, criterio.FieldError{Field: "terminal.terminate_timeout", Err: fmt.Errorf("must not be negative")})
	}

	if c.History.MaxEntries < 0 {
		errs = append(errs, criterio.FieldError{Field: "history.max_entries", Err: fmt.Errorf("must not be negative")})
	}

	if c.Output.MaxLines < 0 {
		errs = append(errs, criterio.FieldError{Field: "output.max_lines", Err: fmt.Errorf("must not be negative")})
	}

	for i, r := range c.Runners {
		if r.Pattern == "" || r.Command == "" {
			errs = append(errs, criterio.FieldError{
				Field: fmt.Sprintf("runners[%d]", i),
				Err:   fmt.Errorf("pattern and command are required"),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TerminalShell returns the shell described by the configuration. Bash on a
// pty runs without readline so the shell does not echo or redraw input.
func (c *Config) TerminalShell() terminal.Shell {
	sh := terminal.Shell{
		Path:   c.Shell.Path,
		Args:   c.Shell.Args,
		Family: terminal.DetectFamily(c.Shell.Path),
	}
	if len(sh.Args) == 0 && c.Shell.Backend == BackendPty && sh.Name() == "bash" {
		sh.Args = []string{"--noediting", "-i"}
	}
	return sh
}

// Prompt returns the prompt template for the session. An unset prompt uses
// the shell family default for pipe sessions and the shell's own prompt for
// pty sessions.
func (c *Config) Prompt() string {
	if c.Shell.Prompt != nil {
		return *c.Shell.Prompt
	}
	if c.Shell.Backend == BackendPty {
		return ""
	}
	return terminal.DefaultPrompt(terminal.DetectFamily(c.Shell.Path))
}

// HistoryFile returns the path to the command history JSON file.
func (c *Config) HistoryFile() string {
	return filepath.Join(c.DataDir, "history.json")
}
