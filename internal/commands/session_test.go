//go:build !windows

package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/shelldock/internal/core/history"
	"github.com/hay-kot/shelldock/internal/store/jsonfile"
	"github.com/hay-kot/shelldock/internal/terminal"
	"github.com/hay-kot/shelldock/pkg/executil"
)

func TestPlainSession_RunsLinesUntilEOF(t *testing.T) {
	var out bytes.Buffer
	store := jsonfile.NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 10)

	s := plainSession{
		proc: executil.NewPipeProcess(),
		opts: terminal.Options{
			Shell:      terminal.Shell{Path: "sh", Family: terminal.FamilyPOSIX},
			Dir:        t.TempDir(),
			Prompt:     "$ ",
			LineEnding: "\n",
		},
		store:   store,
		in:      strings.NewReader("echo first\necho second\n"),
		out:     &out,
		initial: "echo initial",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, s.run(ctx))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Terminal connected. sh is ready.\n$ "), text)
	assert.Contains(t, text, "initial\n")
	assert.Contains(t, text, "first\n")
	assert.Contains(t, text, "second\n")
	assert.Contains(t, text, "Terminal process finished.")

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"echo initial", "echo first", "echo second"}, history.Commands(entries))
}

func TestPlainSession_ChangesDirBeforeInitial(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()

	s := plainSession{
		proc: executil.NewPipeProcess(),
		opts: terminal.Options{
			Shell:      terminal.Shell{Path: "sh", Family: terminal.FamilyPOSIX},
			Dir:        t.TempDir(),
			Prompt:     "$ ",
			LineEnding: "\n",
		},
		in:      strings.NewReader(""),
		out:     &out,
		dir:     dir,
		initial: "pwd",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, s.run(ctx))

	text := out.String()
	assert.Contains(t, text, "cd '"+dir+"'")
	assert.Contains(t, text, dir+"\n")
}

func TestPlainSession_SpawnFailure(t *testing.T) {
	var out bytes.Buffer

	s := plainSession{
		proc: executil.NewPipeProcess(),
		opts: terminal.Options{
			Shell: terminal.Shell{Path: "/nonexistent/shell"},
			Dir:   t.TempDir(),
		},
		in:  strings.NewReader(""),
		out: &out,
	}

	err := s.run(context.Background())
	require.ErrorIs(t, err, terminal.ErrSpawn)
	assert.Contains(t, out.String(), "Error starting terminal process:")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestRenderMarkdown_Raw(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, renderMarkdown(&out, keysGuide(), true))
	assert.Contains(t, out.String(), "# Terminal Keybindings")
	assert.Contains(t, out.String(), "`ctrl+q`")
}
