package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/shelldock/internal/terminal"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, BackendPipe, cfg.Shell.Backend)
	assert.Equal(t, terminal.DefaultTerminateTimeout, cfg.Terminal.TerminateTimeout)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 500, cfg.History.MaxEntries)
	assert.NotEmpty(t, cfg.Runners)
	assert.Equal(t, filepath.Join(dataDir, "history.json"), cfg.HistoryFile())
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
shell:
  path: /bin/zsh
  backend: pty
  encoding: windows-1252
terminal:
  terminate_timeout: 5s
history:
  enabled: false
runners:
  - pattern: "**/*.rb"
    command: ruby {{ shq .Path }}
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/bin/zsh", cfg.Shell.Path)
	assert.Equal(t, BackendPty, cfg.Shell.Backend)
	assert.Equal(t, "windows-1252", cfg.Shell.Encoding)
	assert.Equal(t, 5*time.Second, cfg.Terminal.TerminateTimeout)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, 500, cfg.History.MaxEntries)
	assert.Equal(t, 1000, cfg.Output.MaxLines)
	require.Len(t, cfg.Runners, 1)
	assert.Equal(t, "**/*.rb", cfg.Runners[0].Pattern)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "shell: [unterminated")

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidBackend(t *testing.T) {
	path := writeConfig(t, "shell:\n  backend: telnet\n")

	_, err := Load(path, t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "shell.backend", fieldErrs[0].Field)
}

func TestPrompt(t *testing.T) {
	t.Run("pipe uses family default", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Shell.Path = "/bin/bash"
		assert.Equal(t, terminal.DefaultPrompt(terminal.FamilyPOSIX), cfg.Prompt())
	})

	t.Run("pty leaves prompting to the shell", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Shell.Backend = BackendPty
		assert.Empty(t, cfg.Prompt())
	})

	t.Run("explicit prompt wins", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Shell.Backend = BackendPty
		p := ">> "
		cfg.Shell.Prompt = &p
		assert.Equal(t, ">> ", cfg.Prompt())
	})
}

func TestTerminalShell_PtyBashArgs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shell.Path = "/bin/bash"
	cfg.Shell.Args = nil
	cfg.Shell.Backend = BackendPty

	sh := cfg.TerminalShell()
	assert.Equal(t, []string{"--noediting", "-i"}, sh.Args)
	assert.Equal(t, terminal.FamilyPOSIX, sh.Family)

	cfg.Shell.Backend = BackendPipe
	assert.Empty(t, cfg.TerminalShell().Args)
}
