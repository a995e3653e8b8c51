// Package runner maps files to the shell command that runs them.
package runner

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/shelldock/pkg/tmpl"
)

// ErrNoRunner is returned when no runner pattern matches a file.
var ErrNoRunner = errors.New("no runner matches file")

// Runner pairs a doublestar pattern with a command template. The template
// receives Data.
type Runner struct {
	Pattern string `yaml:"pattern"`
	Command string `yaml:"command"`
}

// Data is the template context for a runner command.
type Data struct {
	Path string // absolute file path
	Dir  string // directory containing the file
	Name string // base name
}

// DefaultRunners returns the built-in runners.
func DefaultRunners() []Runner {
	return []Runner{
		{Pattern: "**/*.py", Command: `python "{{ .Path }}"`},
		{Pattern: "**/*.sh", Command: "sh {{ shq .Path }}"},
		{Pattern: "**/*.go", Command: "go run {{ shq .Path }}"},
		{Pattern: "**/*.ps1", Command: `& "{{ .Path }}"`},
	}
}

// Resolve renders the command of the first runner whose pattern matches path.
func Resolve(runners []Runner, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	r, ok := Match(runners, abs)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoRunner, path)
	}

	cmd, err := tmpl.Render(r.Command, Data{
		Path: abs,
		Dir:  filepath.Dir(abs),
		Name: filepath.Base(abs),
	})
	if err != nil {
		return "", fmt.Errorf("runner %q: %w", r.Pattern, err)
	}
	return cmd, nil
}

// Match returns the first runner whose pattern matches path. Patterns are
// matched against the slash-separated path without its root.
func Match(runners []Runner, path string) (Runner, bool) {
	slashed := filepath.ToSlash(path[len(filepath.VolumeName(path)):])
	slashed = strings.TrimPrefix(slashed, "/")
	for _, r := range runners {
		ok, err := doublestar.Match(r.Pattern, slashed)
		if err != nil {
			continue
		}
		if ok {
			return r, true
		}
	}
	return Runner{}, false
}
