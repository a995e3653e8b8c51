package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/shelldock/internal/runner"
)

type RunCmd struct {
	flags *Flags
	tui   *TuiCmd
	print bool
	cd    bool
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags, tui *TuiCmd) *RunCmd {
	return &RunCmd{flags: flags, tui: tui}
}

// Register adds the run command to the application
func (cmd *RunCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Run a file in a new shell session",
		UsageText: "shelldock run [options] <file>",
		Description: `Opens a shell session and runs the given file with the first runner
whose pattern matches it.

Runners are configured under 'runners' in the config file. The defaults run
Python, shell, Go and PowerShell files.

Example:
  shelldock run script.py
  shelldock run --print build.sh
  shelldock run --cd scripts/build.sh`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "print",
				Aliases:     []string{"p"},
				Usage:       "print the resolved command instead of running it",
				Destination: &cmd.print,
			},
			&cli.BoolFlag{
				Name:        "cd",
				Usage:       "change to the file's directory before running it",
				Destination: &cmd.cd,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RunCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("exactly one file required\n\nUsage: shelldock run <file>")
	}

	file := c.Args().First()
	command, err := runner.Resolve(cmd.flags.Config.Runners, file)
	if err != nil {
		return err
	}

	var dir string
	if cmd.cd {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", file, err)
		}
		dir = filepath.Dir(abs)
	}

	if cmd.print {
		_, _ = fmt.Fprintln(c.Root().Writer, command)
		return nil
	}

	log.Info().Str("command", command).Str("dir", dir).Msg("running file")
	return cmd.tui.Launch(ctx, command, dir)
}
