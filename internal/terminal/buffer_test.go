package terminal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_AppendMirrors(t *testing.T) {
	var out strings.Builder
	b := NewBuffer(&out)

	b.Append("héllo")
	b.Append("")

	assert.Equal(t, 5, b.Len())
	assert.Equal(t, "héllo", out.String())
}

func TestBuffer_DeleteAdjustsCursor(t *testing.T) {
	b := NewBuffer(nil)
	b.Append("abcdef")
	b.SetCursor(5)

	b.Delete(1, 3)
	assert.Equal(t, "adef", b.String())
	assert.Equal(t, 3, b.Cursor())

	b.SetCursor(2)
	b.Delete(1, 4)
	assert.Equal(t, "a", b.String())
	assert.Equal(t, 1, b.Cursor())
}

func TestBuffer_ClampsOffsets(t *testing.T) {
	b := NewBuffer(nil)
	b.Append("abc")

	b.SetCursor(99)
	assert.Equal(t, 3, b.Cursor())
	b.SetCursor(-4)
	assert.Equal(t, 0, b.Cursor())
	assert.Equal(t, "abc", b.Text(-1, 10))
	assert.Empty(t, b.Text(2, 1))
}

func TestBuffer_Edit(t *testing.T) {
	b := NewBuffer(nil)
	b.Append("first\nsecond")
	b.SetCursor(b.Len())

	b.Edit(KeyEvent{Key: KeyBackspace})
	assert.Equal(t, "first\nsecon", b.String())

	b.Edit(KeyEvent{Key: KeyHome})
	assert.Equal(t, 6, b.Cursor())

	b.Edit(KeyEvent{Key: KeyRunes, Text: ">"})
	assert.Equal(t, "first\n>secon", b.String())
	assert.Equal(t, 7, b.Cursor())

	b.Edit(KeyEvent{Key: KeyDelete})
	assert.Equal(t, "first\n>econ", b.String())

	b.Edit(KeyEvent{Key: KeyLeft})
	b.Edit(KeyEvent{Key: KeyRight})
	b.Edit(KeyEvent{Key: KeyRight})
	assert.Equal(t, 8, b.Cursor())

	b.Edit(KeyEvent{Key: KeyEnd})
	assert.Equal(t, b.Len(), b.Cursor())
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer(nil)
	b.Append("abc")
	b.SetCursor(2)

	b.Clear()

	assert.Zero(t, b.Len())
	assert.Zero(t, b.Cursor())
}
