package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/shelldock/internal/commands/doctor"
	"github.com/hay-kot/shelldock/internal/printer"
)

// ConfigCmd groups the configuration subcommands.
type ConfigCmd struct {
	flags  *Flags
	format string
}

func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Inspect and validate the configuration",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate the configuration file",
				UsageText:   "shelldock config validate [options]",
				Description: "Checks the shell executable, output encoding, prompt and runner templates, runner globs, and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.validate,
			},
			{
				Name:      "show",
				Usage:     "Print the effective configuration as YAML",
				UsageText: "shelldock config show",
				Action:    cmd.show,
			},
		},
	})
	return app
}

func (cmd *ConfigCmd) validate(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	report := doctor.Run(ctx, doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath))

	if cmd.format == "json" {
		var items []doctor.CheckItem
		for _, r := range report.Results {
			items = append(items, r.Items...)
		}
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(struct {
			Valid   bool               `json:"valid"`
			Shell   string             `json:"shell"`
			Backend string             `json:"backend"`
			Runners int                `json:"runners"`
			Items   []doctor.CheckItem `json:"items"`
		}{report.Healthy(), cfg.Shell.Path, cfg.Shell.Backend, len(cfg.Runners), items}); err != nil {
			return err
		}
	} else {
		p := printer.Ctx(ctx)
		p.Section("Configuration")
		p.Printf("  config:  %s", cmd.flags.ConfigPath)
		p.Printf("  shell:   %s (%s, %s)", cfg.Shell.Path, cfg.Shell.Backend, cfg.Shell.Encoding)
		p.Printf("  runners: %d", len(cfg.Runners))
		p.Printf("")

		for _, r := range report.Results {
			for _, item := range r.Items {
				switch item.Status {
				case doctor.StatusFail:
					p.FailItem(item.Label, item.Detail)
				case doctor.StatusWarn:
					p.WarnItem(item.Label, item.Detail)
				}
			}
		}
		if report.Failed+report.Warned > 0 {
			p.Printf("")
		}

		switch {
		case !report.Healthy():
			p.Errorf("%d error(s), %d warning(s)", report.Failed, report.Warned)
		case report.Warned > 0:
			p.Successf("Configuration is valid (%d warning(s))", report.Warned)
		default:
			p.Successf("Configuration is valid")
		}
	}

	if !report.Healthy() {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigCmd) show(_ context.Context, c *cli.Command) error {
	if cmd.flags.Config == nil {
		return fmt.Errorf("configuration not loaded")
	}
	enc := yaml.NewEncoder(c.Root().Writer)
	enc.SetIndent(2)
	if err := enc.Encode(cmd.flags.Config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
