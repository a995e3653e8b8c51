package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/shelldock/internal/core/history"
	"github.com/hay-kot/shelldock/internal/printer"
)

type HistoryCmd struct {
	flags *Flags

	clear bool
	yes   bool
	limit int
	here  bool
}

func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "View or manage command history",
		UsageText: "shelldock history [options] [query]",
		Description: `Lists commands submitted to shell sessions, newest first, with the
directory they ran in. A query keeps only commands containing it
(case-insensitive); --here keeps only commands run in the current directory.

Use --clear to remove all history entries.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Aliases:     []string{"c"},
				Usage:       "clear all command history",
				Destination: &cmd.clear,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "here",
				Usage:       "only list commands run in the current directory",
				Destination: &cmd.here,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of entries to list (0 = all)",
				Value:       50,
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.flags.HistoryStore == nil {
		p.Warnf("Command history is disabled (history.enabled: false)")
		return nil
	}

	if cmd.clear {
		return cmd.runClear(ctx, p)
	}

	return cmd.runList(ctx, c)
}

func (cmd *HistoryCmd) runList(ctx context.Context, c *cli.Command) error {
	all, err := cmd.flags.HistoryStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	var dir string
	if cmd.here {
		if dir, err = os.Getwd(); err != nil {
			return fmt.Errorf("resolve current directory: %w", err)
		}
	}
	entries := filterHistory(all, c.Args().First(), dir, cmd.limit)

	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("No matching commands")
		return nil
	}

	tw := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tWHEN\tDIR\tCOMMAND")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Timestamp.Format(time.DateTime), e.Dir, truncate(e.Command, 60))
	}
	return tw.Flush()
}

// filterHistory keeps entries whose command contains query (case-insensitive)
// and, when dir is set, that ran in dir. At most limit entries are kept
// (0 keeps all).
func filterHistory(entries []history.Entry, query, dir string, limit int) []history.Entry {
	query = strings.ToLower(query)
	out := make([]history.Entry, 0, len(entries))
	for _, e := range entries {
		if query != "" && !strings.Contains(strings.ToLower(e.Command), query) {
			continue
		}
		if dir != "" && e.Dir != dir {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (cmd *HistoryCmd) runClear(ctx context.Context, p *printer.Printer) error {
	if !cmd.yes {
		if !interactive() {
			return fmt.Errorf("refusing to clear history without confirmation; pass --yes")
		}

		confirmed := false
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Clear all command history?").
					Affirmative("Clear").
					Negative("Cancel").
					Value(&confirmed),
			),
		).Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("confirm: %w", err)
		}
		if !confirmed {
			p.Infof("History left unchanged")
			return nil
		}
	}

	if err := cmd.flags.HistoryStore.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	p.Successf("Command history cleared")
	return nil
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
