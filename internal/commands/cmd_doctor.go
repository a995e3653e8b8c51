package commands

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/shelldock/internal/commands/doctor"
	"github.com/hay-kot/shelldock/internal/printer"
	"github.com/hay-kot/shelldock/internal/terminal"
)

type DoctorCmd struct {
	flags  *Flags
	format string
	fix    bool
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your shelldock setup",
		UsageText:   "shelldock doctor [options]",
		Description: "Runs diagnostic checks on configuration, the configured shell, and command history.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "fix",
				Usage:       "repair fixable issues",
				Destination: &cmd.fix,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	checks := []doctor.Check{
		doctor.NewConfigCheck(cmd.flags.Config, cmd.flags.ConfigPath),
	}
	if cfg := cmd.flags.Config; cfg != nil {
		checks = append(checks, doctor.NewShellCheck(cfg.TerminalShell(), cfg.Shell.LineEnding, func() terminal.Process {
			return newProcess(cfg)
		}))
	}
	checks = append(checks, doctor.NewHistoryCheck(cmd.flags.HistoryStore, cmd.fix))

	report := doctor.Run(ctx, checks...)

	var err error
	if cmd.format == "json" {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		err = enc.Encode(struct {
			Healthy bool `json:"healthy"`
			doctor.Report
		}{report.Healthy(), report})
	} else {
		cmd.printReport(ctx, report)
	}
	if err != nil {
		return err
	}

	if !report.Healthy() {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *DoctorCmd) printReport(ctx context.Context, report doctor.Report) {
	p := printer.Ctx(ctx)

	for _, result := range report.Results {
		p.Section(result.Name)
		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			default:
				p.FailItem(item.Label, item.Detail)
			}
		}
		p.Printf("")
	}

	p.Printf("Summary: %d passed, %d warnings, %d failed", report.Passed, report.Warned, report.Failed)
	if report.Fixable > 0 && !cmd.fix {
		p.Infof("%d issue(s) can be repaired with 'shelldock doctor --fix'", report.Fixable)
	}
}
