package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/shelldock/internal/terminal"
)

// keyMap holds the bindings handled by the TUI itself. Everything else is
// forwarded to the focused pane.
type keyMap struct {
	SwitchPane key.Binding
	Clear      key.Binding
	Quit       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.Clear, k.PageUp, k.Quit}
}

// translateKey maps a key press onto the terminal key model. Keys with no
// editing meaning report false.
func translateKey(msg tea.KeyMsg) (terminal.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return terminal.KeyEvent{Key: terminal.KeyEnter}, true
	case tea.KeyUp:
		return terminal.KeyEvent{Key: terminal.KeyUp}, true
	case tea.KeyDown:
		return terminal.KeyEvent{Key: terminal.KeyDown}, true
	case tea.KeyLeft:
		return terminal.KeyEvent{Key: terminal.KeyLeft}, true
	case tea.KeyRight:
		return terminal.KeyEvent{Key: terminal.KeyRight}, true
	case tea.KeyHome:
		return terminal.KeyEvent{Key: terminal.KeyHome}, true
	case tea.KeyEnd:
		return terminal.KeyEvent{Key: terminal.KeyEnd}, true
	case tea.KeyBackspace:
		return terminal.KeyEvent{Key: terminal.KeyBackspace}, true
	case tea.KeyDelete:
		return terminal.KeyEvent{Key: terminal.KeyDelete}, true
	case tea.KeySpace:
		return terminal.KeyEvent{Key: terminal.KeyRunes, Text: " "}, true
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return terminal.KeyEvent{}, false
		}
		return terminal.KeyEvent{Key: terminal.KeyRunes, Text: string(msg.Runes)}, true
	default:
		return terminal.KeyEvent{}, false
	}
}
