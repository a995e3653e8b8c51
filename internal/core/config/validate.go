package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/shelldock/internal/runner"
	"github.com/hay-kot/shelldock/internal/terminal"
	"github.com/hay-kot/shelldock/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this checks the shell executable, the output encoding,
// runner patterns and templates, and file access.
func (c *Config) ValidateDeep(configPath string) error {
	var errs criterio.FieldErrors

	if err := c.Validate(); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			errs = append(errs, fieldErrs...)
		} else {
			errs = append(errs, criterio.FieldError{Err: err})
		}
	}

	errs = append(errs, c.validateFileAccess(configPath)...)
	errs = append(errs, c.validateShell()...)
	errs = append(errs, c.validateRunners()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Warnings returns non-fatal issues with the configuration.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if len(c.Runners) == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Runners",
			Message:  "no runners defined; 'shelldock run' will not resolve any file",
		})
	}

	if !c.History.Enabled {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "history.enabled",
			Message:  "command history is not persisted between sessions",
		})
	}

	family := terminal.DetectFamily(c.Shell.Path)
	if c.Shell.Backend == BackendPty && family == terminal.FamilyWindows {
		warnings = append(warnings, ValidationWarning{
			Category: "Shell",
			Item:     "shell.backend",
			Message:  "the pty backend is not available for Windows shells",
		})
	}

	if c.Shell.LineEnding != "" && c.Shell.LineEnding != "\n" && c.Shell.LineEnding != "\r\n" {
		warnings = append(warnings, ValidationWarning{
			Category: "Shell",
			Item:     "shell.line_ending",
			Message:  fmt.Sprintf("unusual line ending %q", c.Shell.LineEnding),
		})
	}

	return warnings
}

func (c *Config) validateFileAccess(configPath string) criterio.FieldErrors {
	var errs criterio.FieldErrors

	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil {
			if info.IsDir() {
				errs = append(errs, criterio.FieldError{
					Field: "config_file",
					Err:   fmt.Errorf("%s is a directory, not a file", configPath),
				})
			}
		} else if !os.IsNotExist(err) {
			errs = append(errs, criterio.FieldError{
				Field: "config_file",
				Err:   fmt.Errorf("cannot access %s: %w", configPath, err),
			})
		}
	}

	if c.DataDir != "" {
		if info, err := os.Stat(c.DataDir); err == nil && !info.IsDir() {
			errs = append(errs, criterio.FieldError{
				Field: "data_dir",
				Err:   fmt.Errorf("%s exists but is not a directory", c.DataDir),
			})
		}
	}

	return errs
}

func (c *Config) validateShell() criterio.FieldErrors {
	var errs criterio.FieldErrors

	if c.Shell.Path != "" {
		if _, err := exec.LookPath(c.Shell.Path); err != nil {
			errs = append(errs, criterio.FieldError{
				Field: "shell.path",
				Err:   fmt.Errorf("shell executable not found: %s", c.Shell.Path),
			})
		}
	}

	if _, err := terminal.NewDecoder(c.Shell.Encoding); err != nil {
		errs = append(errs, criterio.FieldError{Field: "shell.encoding", Err: err})
	}

	if c.Shell.Prompt != nil && *c.Shell.Prompt != "" {
		if _, err := tmpl.Render(*c.Shell.Prompt, struct{ Dir string }{}); err != nil {
			errs = append(errs, criterio.FieldError{
				Field: "shell.prompt",
				Err:   fmt.Errorf("template error: %w", err),
			})
		}
	}

	return errs
}

func (c *Config) validateRunners() criterio.FieldErrors {
	var errs criterio.FieldErrors

	for i, r := range c.Runners {
		field := fmt.Sprintf("runners[%d]", i)

		if r.Pattern != "" && !doublestar.ValidatePattern(r.Pattern) {
			errs = append(errs, criterio.FieldError{
				Field: field + ".pattern",
				Err:   fmt.Errorf("invalid glob %q", r.Pattern),
			})
		}

		if r.Command != "" {
			if _, err := tmpl.Render(r.Command, runner.Data{}); err != nil {
				errs = append(errs, criterio.FieldError{
					Field: field + ".command",
					Err:   fmt.Errorf("template error: %w", err),
				})
			}
		}
	}

	return errs
}
