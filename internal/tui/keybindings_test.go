package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/shelldock/internal/terminal"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want terminal.KeyEvent
		ok   bool
	}{
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, terminal.KeyEvent{Key: terminal.KeyEnter}, true},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, terminal.KeyEvent{Key: terminal.KeyUp}, true},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, terminal.KeyEvent{Key: terminal.KeyDown}, true},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, terminal.KeyEvent{Key: terminal.KeyBackspace}, true},
		{"home", tea.KeyMsg{Type: tea.KeyHome}, terminal.KeyEvent{Key: terminal.KeyHome}, true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, terminal.KeyEvent{Key: terminal.KeyRunes, Text: " "}, true},
		{"runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ls")}, terminal.KeyEvent{Key: terminal.KeyRunes, Text: "ls"}, true},
		{"empty runes", tea.KeyMsg{Type: tea.KeyRunes}, terminal.KeyEvent{}, false},
		{"ctrl+a", tea.KeyMsg{Type: tea.KeyCtrlA}, terminal.KeyEvent{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateKey(tt.msg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyMap_Bindings(t *testing.T) {
	k := defaultKeyMap()

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyTab}, k.SwitchPane))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlL}, k.Clear))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, k.Quit))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlQ}, k.Quit))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, k.Quit))
}
