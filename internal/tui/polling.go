package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/shelldock/internal/core/history"
	"github.com/hay-kot/shelldock/pkg/randid"
)

const outputPollInterval = 250 * time.Millisecond

// outputTickMsg triggers a refresh of the Output pane.
type outputTickMsg struct{}

// historySavedMsg reports the result of persisting submitted commands.
type historySavedMsg struct {
	saved int
	err   error
}

// scheduleOutputTick returns a command that schedules the next Output pane refresh.
func scheduleOutputTick() tea.Cmd {
	return tea.Tick(outputPollInterval, func(time.Time) tea.Msg {
		return outputTickMsg{}
	})
}

// saveHistory returns a command that persists commands in submission order.
func saveHistory(store history.Store, dir string, commands []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for i, c := range commands {
			entry := history.Entry{
				ID:        randid.New(),
				Command:   c,
				Dir:       dir,
				Timestamp: time.Now(),
			}
			if err := store.Save(ctx, entry); err != nil {
				return historySavedMsg{saved: i, err: err}
			}
		}
		return historySavedMsg{saved: len(commands)}
	}
}
