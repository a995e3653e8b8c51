package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_WalkUpAndDown(t *testing.T) {
	h := New()
	h.Push("ls")
	h.Push("cd foo")
	h.Push("echo hi")
	assert.Equal(t, 3, h.Index())

	var got []string
	for range 4 {
		if line, ok := h.Prev(); ok {
			got = append(got, line)
		}
	}
	assert.Equal(t, []string{"echo hi", "cd foo", "ls"}, got)
	assert.Equal(t, 0, h.Index())

	line, ok := h.Next()
	assert.True(t, ok)
	assert.Equal(t, "cd foo", line)

	line, ok = h.Next()
	assert.True(t, ok)
	assert.Equal(t, "echo hi", line)

	line, ok = h.Next()
	assert.True(t, ok)
	assert.Empty(t, line)
	assert.Equal(t, 3, h.Index())

	_, ok = h.Next()
	assert.False(t, ok)
	assert.Equal(t, 3, h.Index())
}

func TestHistory_EmptyNavigation(t *testing.T) {
	h := New()

	_, ok := h.Prev()
	assert.False(t, ok)

	_, ok = h.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Index())
}

func TestHistory_PushResetsCursor(t *testing.T) {
	h := New("a", "b")
	_, _ = h.Prev()
	_, _ = h.Prev()
	assert.Equal(t, 0, h.Index())

	h.Push("c")
	assert.Equal(t, 3, h.Index())
	assert.Equal(t, []string{"a", "b", "c"}, h.Entries())
}

func TestCommands_ReversesNewestFirst(t *testing.T) {
	entries := []Entry{
		{Command: "third"},
		{Command: "second"},
		{Command: "first"},
	}

	assert.Equal(t, []string{"first", "second", "third"}, Commands(entries))
	assert.Empty(t, Commands(nil))
}
