package terminal

import (
	"io"
	"unicode/utf8"
)

// Buffer is an in-memory Display with default line editing. Appended text is
// optionally mirrored to an io.Writer.
type Buffer struct {
	text   []rune
	cursor int
	mirror io.Writer
}

// NewBuffer returns an empty buffer. mirror may be nil.
func NewBuffer(mirror io.Writer) *Buffer {
	return &Buffer{mirror: mirror}
}

func (b *Buffer) Append(text string) {
	if text == "" {
		return
	}
	b.text = append(b.text, []rune(text)...)
	if b.mirror != nil {
		_, _ = io.WriteString(b.mirror, text)
	}
}

func (b *Buffer) Len() int {
	return len(b.text)
}

func (b *Buffer) Cursor() int {
	return b.cursor
}

func (b *Buffer) SetCursor(pos int) {
	b.cursor = b.clamp(pos)
}

func (b *Buffer) Text(from, to int) string {
	from, to = b.clamp(from), b.clamp(to)
	if from >= to {
		return ""
	}
	return string(b.text[from:to])
}

func (b *Buffer) Delete(from, to int) {
	from, to = b.clamp(from), b.clamp(to)
	if from >= to {
		return
	}
	b.text = append(b.text[:from], b.text[to:]...)
	switch {
	case b.cursor >= to:
		b.cursor -= to - from
	case b.cursor > from:
		b.cursor = from
	}
}

func (b *Buffer) Clear() {
	b.text = b.text[:0]
	b.cursor = 0
}

// String returns the whole buffer.
func (b *Buffer) String() string {
	return string(b.text)
}

// Insert places text at pos and moves the cursor past it when the cursor was
// at or after pos.
func (b *Buffer) Insert(pos int, text string) {
	if text == "" {
		return
	}
	pos = b.clamp(pos)
	ins := []rune(text)
	out := make([]rune, 0, len(b.text)+len(ins))
	out = append(out, b.text[:pos]...)
	out = append(out, ins...)
	out = append(out, b.text[pos:]...)
	b.text = out
	if b.cursor >= pos {
		b.cursor += len(ins)
	}
}

// Edit applies the default editing behavior for ev.
func (b *Buffer) Edit(ev KeyEvent) {
	switch ev.Key {
	case KeyRunes:
		if utf8.ValidString(ev.Text) {
			b.Insert(b.cursor, ev.Text)
		}
	case KeyEnter:
		b.Insert(b.cursor, "\n")
	case KeyBackspace:
		if b.cursor > 0 {
			b.Delete(b.cursor-1, b.cursor)
		}
	case KeyDelete:
		b.Delete(b.cursor, b.cursor+1)
	case KeyLeft:
		b.SetCursor(b.cursor - 1)
	case KeyRight:
		b.SetCursor(b.cursor + 1)
	case KeyHome:
		b.cursor = b.lineStart()
	case KeyEnd:
		b.cursor = len(b.text)
	}
}

func (b *Buffer) lineStart() int {
	i := b.cursor
	for i > 0 && b.text[i-1] != '\n' {
		i--
	}
	return i
}

func (b *Buffer) clamp(pos int) int {
	return max(0, min(pos, len(b.text)))
}
