package doctor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/shelldock/internal/core/config"
	"github.com/hay-kot/shelldock/internal/store/jsonfile"
	"github.com/hay-kot/shelldock/internal/terminal"
	"github.com/hay-kot/shelldock/pkg/executil"
)

func TestHistoryCheck_Disabled(t *testing.T) {
	result := NewHistoryCheck(nil, false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
}

func TestHistoryCheck_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store := jsonfile.NewHistoryStore(path, 10)

	result := NewHistoryCheck(store, false).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.True(t, result.Items[0].Fixable)
	assert.Equal(t, 1, Run(context.Background(), staticCheck{result}).Fixable)

	result = NewHistoryCheck(store, true).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestShellCheck_MissingExecutable(t *testing.T) {
	shell := terminal.Shell{Path: "/nonexistent/shell"}
	result := NewShellCheck(shell, "\n", func() terminal.Process { return executil.NewPipeProcess() }).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestShellCheck_Probe(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	shell := terminal.Shell{Path: "sh", Family: terminal.FamilyPOSIX}
	result := NewShellCheck(shell, "\n", func() terminal.Process { return executil.NewPipeProcess() }).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[1].Status, result.Items[1].Detail)
}

type staticCheck struct{ r Result }

func (s staticCheck) Name() string               { return s.r.Name }
func (s staticCheck) Run(context.Context) Result { return s.r }

func TestRun_Report(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Shell.Path = "/nonexistent/shell"
	cfg.DataDir = t.TempDir()

	report := Run(context.Background(),
		NewConfigCheck(&cfg, ""),
		NewHistoryCheck(nil, false),
	)

	assert.Equal(t, 0, report.Passed)
	assert.Positive(t, report.Warned)
	assert.Positive(t, report.Failed)
	assert.False(t, report.Healthy())
	require.Len(t, report.Results, 2)
	assert.Equal(t, "shell.path", report.Results[0].Items[0].Label)
}

func TestConfigCheck_Valid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Shell.Path = "sh"
	cfg.DataDir = t.TempDir()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	result := NewConfigCheck(&cfg, "").Run(context.Background())
	require.NotEmpty(t, result.Items)
	for _, item := range result.Items {
		assert.NotEqual(t, StatusFail, item.Status, item.Label+": "+item.Detail)
	}
}

func TestStatus_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(CheckItem{Label: "x", Status: StatusWarn})
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"x","status":"warn"}`, string(data))
	assert.Equal(t, "unknown", Status(9).String())
}
