package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/shelldock/internal/core/history"
)

func TestHistoryStore_SaveAndList(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, history.Entry{ID: "a", Command: "ls", Timestamp: time.Now()}))
	require.NoError(t, store.Save(ctx, history.Entry{ID: "b", Command: "pwd", Timestamp: time.Now()}))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "pwd", entries[0].Command, "newest entry should be first")
	assert.Equal(t, "ls", entries[1].Command)
}

func TestHistoryStore_ListMissingFile(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "nested", "history.json"), 0)

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryStore_PrunesToMaxEntries(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 2)
	ctx := context.Background()

	for _, cmd := range []string{"one", "two", "three"} {
		require.NoError(t, store.Save(ctx, history.Entry{ID: cmd, Command: cmd}))
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"two", "three"}, history.Commands(entries))
}

func TestHistoryStore_Clear(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, history.Entry{ID: "a", Command: "ls"}))
	require.NoError(t, store.Clear(ctx))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryStore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewHistoryStore(path, 0).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history file corrupted")
}

func TestHistoryStore_WritesVersion(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)
	require.NoError(t, store.Save(context.Background(), history.Entry{ID: "a", Command: "ls"}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": 1`)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(store.Path()), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files should not be left behind")
}

func TestHistoryStore_NewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "entries": []}`), 0o644))

	_, err := NewHistoryStore(path, 0).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestHistoryStore_CanceledContext(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Save(ctx, history.Entry{ID: "a", Command: "ls"}), context.Canceled)
	_, err := store.List(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
