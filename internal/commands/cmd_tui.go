package commands

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/shelldock/internal/tui"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "plain",
			Usage:       "run a line-mode session on stdin/stdout instead of the TUI",
			Sources:     cli.EnvVars("SHELLDOCK_PLAIN"),
			Destination: &cmd.flags.Plain,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	return cmd.Launch(ctx, "", "")
}

// Launch opens a shell session. Once the shell is ready it changes to dir and
// runs initial, skipping either when empty. The TUI is used when both stdin and stdout are terminals and --plain is
// not set.
func (cmd *TuiCmd) Launch(ctx context.Context, initial, dir string) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	var (
		proc = newProcess(cfg)
		opts = terminalOptions(ctx, cfg, cmd.flags.HistoryStore)
	)

	if cmd.flags.Plain || !interactive() {
		return plainSession{
			proc:    proc,
			opts:    opts,
			store:   cmd.flags.HistoryStore,
			in:      os.Stdin,
			out:     os.Stdout,
			dir:     dir,
			initial: initial,
		}.run(ctx)
	}

	m := tui.New(ctx, proc, tui.Options{
		Terminal:       opts,
		Panel:          cmd.flags.Panel,
		Store:          cmd.flags.HistoryStore,
		InitialDir:     dir,
		InitialCommand: initial,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.Attach(p)

	if _, err := p.Run(); err != nil {
		m.Controller().Shutdown()
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
