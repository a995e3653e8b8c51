// Package output implements the Output panel: an append-only log view that
// receives informational and error text from the rest of the application.
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultMaxLines is the number of lines a Panel keeps when no limit is set.
const DefaultMaxLines = 1000

// Panel is a bounded, goroutine-safe line buffer. It implements io.Writer so
// a logger can write into it directly.
type Panel struct {
	mu       sync.Mutex
	lines    []string
	partial  string
	maxLines int
	version  uint64
}

// NewPanel returns a panel keeping at most maxLines lines (0 = default).
func NewPanel(maxLines int) *Panel {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Panel{maxLines: maxLines}
}

// AppendText appends text as one or more complete lines.
func (p *Panel) AppendText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.appendLines(strings.Split(strings.TrimRight(text, "\n"), "\n"))
}

func (p *Panel) AppendInfo(text string) {
	p.AppendText("[INFO] " + text)
}

func (p *Panel) AppendError(text string) {
	p.AppendText("[ERROR] " + text)
}

func (p *Panel) AppendDebug(text string) {
	p.AppendText("[DEBUG] " + text)
}

// Write implements io.Writer. Partial lines are held until their newline
// arrives.
func (p *Panel) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := p.partial + string(b)
	parts := strings.Split(data, "\n")
	p.partial = parts[len(parts)-1]
	p.appendLines(parts[:len(parts)-1])
	return len(b), nil
}

// Text returns the panel content.
func (p *Panel) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return strings.Join(p.lines, "\n")
}

// Clear removes all content.
func (p *Panel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = nil
	p.partial = ""
	p.version++
}

// Version increments on every change so views can skip redundant renders.
func (p *Panel) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

func (p *Panel) appendLines(lines []string) {
	if len(lines) == 0 {
		return
	}
	p.lines = append(p.lines, lines...)
	if len(p.lines) > p.maxLines {
		p.lines = p.lines[len(p.lines)-p.maxLines:]
	}
	p.version++
}

// LogWriter returns a zerolog writer that renders events into w in the
// panel's "[LEVEL] message" form.
func LogWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{zerolog.TimestampFieldName},
		FormatLevel: func(i any) string {
			level, _ := i.(string)
			if level == "" {
				level = "log"
			}
			return fmt.Sprintf("[%s]", strings.ToUpper(level))
		},
	}
}
