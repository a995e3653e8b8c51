package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	reflowwrap "github.com/muesli/reflow/wrap"

	"github.com/hay-kot/shelldock/internal/terminal"
)

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "starting..."
	}

	termTitle, outTitle := inactiveTitleStyle, inactiveTitleStyle
	termBox, outBox := paneStyle, paneStyle
	if m.focus == paneTerminal {
		termTitle, termBox = titleStyle, focusedPaneStyle
	} else {
		outTitle, outBox = titleStyle, focusedPaneStyle
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		termTitle.Render("Terminal"),
		termBox.Render(m.termView.View()),
		outTitle.Render("Output"),
		outBox.Render(m.outView.View()),
		m.statusBar(),
	)
}

func (m Model) statusBar() string {
	s := m.ctrl.State()
	label, style := s.String(), statusDownStyle
	switch {
	case s == terminal.StateStarting || s == terminal.StateExecuting:
		style = statusBusyStyle
	case m.ctrl.Running():
		style = statusReadyStyle
	case s == terminal.StateReady:
		label = "exited"
	}
	state := style.Render(iconDot + " " + label)

	parts := []string{
		state,
		textStyle.Render(m.ctrl.Shell().Name()),
		m.ctrl.Dir(),
		m.ctrl.Encoding(),
		renderHelp(m.keys.ShortHelp()),
	}
	return statusBarStyle.Render(strings.Join(parts, " "+iconDot+" "))
}

func renderHelp(bindings []key.Binding) string {
	items := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(items, "  "))
}

// renderBuffer renders the buffer text with the cursor highlighted. Carriage
// returns before newlines are dropped; no other control sequences are
// interpreted.
func renderBuffer(buf *terminal.Buffer, width int, showCursor bool) string {
	text := []rune(buf.String())
	cur := buf.Cursor()

	var sb strings.Builder
	sb.WriteString(string(text[:cur]))
	if showCursor {
		under := " "
		rest := text[cur:]
		if len(rest) > 0 && rest[0] != '\n' {
			under = string(rest[0])
			rest = rest[1:]
		}
		sb.WriteString(cursorStyle.Render(under))
		sb.WriteString(string(rest))
	} else {
		sb.WriteString(string(text[cur:]))
	}

	return wrap(strings.ReplaceAll(sb.String(), "\r\n", "\n"), width)
}

// wrap breaks text at word boundaries and hard-wraps words longer than
// width. ANSI sequences do not count toward the width.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return reflowwrap.String(wordwrap.String(text, width), width)
}
