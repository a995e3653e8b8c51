package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/shelldock/internal/commands"
	"github.com/hay-kot/shelldock/internal/core/config"
	"github.com/hay-kot/shelldock/internal/output"
	"github.com/hay-kot/shelldock/internal/printer"
	"github.com/hay-kot/shelldock/internal/store/jsonfile"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	flags := &commands.Flags{}
	ctx := printer.NewContext(context.Background(), printer.New(os.Stderr))

	if err := setupLogger("info", "", nil); err != nil {
		panic(err)
	}

	if err := newApp(flags).Run(ctx, os.Args); err != nil {
		fmt.Println()
		printer.Ctx(ctx).FatalError(err)
		os.Exit(1)
	}
}

func newApp(flags *commands.Flags) *cli.Command {
	app := &cli.Command{
		Name:      "shelldock",
		Usage:     "An embedded shell panel for the terminal",
		UsageText: "shelldock [global options] command [command options]",
		Description: `shelldock runs your shell inside a console panel with line editing,
persistent command history, and an Output panel for diagnostics.

Run 'shelldock' with no arguments to open the interactive panel.
Run 'shelldock run <file>' to open the panel and run a file.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("SHELLDOCK_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "also append logs to this file",
				Sources:     cli.EnvVars("SHELLDOCK_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "config file",
				Sources:     cli.EnvVars("SHELLDOCK_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "directory for history and other state",
				Sources:     cli.EnvVars("SHELLDOCK_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, prepare(flags, c.Args().First())
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)
	for _, r := range []interface {
		Register(*cli.Command) *cli.Command
	}{
		commands.NewRunCmd(flags, tuiCmd),
		commands.NewHistoryCmd(flags),
		commands.NewConfigCmd(flags),
		commands.NewDoctorCmd(flags),
		commands.NewDocCmd(flags),
	} {
		app = r.Register(app)
	}

	// The bare command opens the panel.
	app.Flags = append(app.Flags, tuiCmd.Flags()...)
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'shelldock --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	return app
}

// prepare loads the config, routes logging and opens the history store.
// The Output panel receives the logs only when the TUI will own the screen.
func prepare(flags *commands.Flags, subcommand string) error {
	cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags.Config = cfg

	var panel io.Writer
	if (subcommand == "" || subcommand == "run") && !flags.Plain && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		flags.Panel = output.NewPanel(cfg.Output.MaxLines)
		panel = flags.Panel
	}

	if err := setupLogger(flags.LogLevel, flags.LogFile, panel); err != nil {
		return err
	}

	if cfg.History.Enabled {
		flags.HistoryStore = jsonfile.NewHistoryStore(cfg.HistoryFile(), cfg.History.MaxEntries)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// setupLogger points the global logger at the console, or at panel when set,
// and additionally at logFile when non-empty.
func setupLogger(level, logFile string, panel io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	if panel != nil {
		writers[0] = output.LogWriter(panel)
	}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(writers...)).Level(lvl)
	return nil
}
