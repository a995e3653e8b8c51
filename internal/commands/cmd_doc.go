package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/shelldock/internal/runner"
	"github.com/hay-kot/shelldock/internal/terminal"
)

type DocCmd struct {
	flags *Flags
	raw   bool
}

func NewDocCmd(flags *Flags) *DocCmd {
	return &DocCmd{flags: flags}
}

func (cmd *DocCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doc",
		Usage: "Show reference documentation",
		Description: `Access reference documentation for shelldock.

Use 'shelldock doc keys' to see the terminal keybindings.
Use 'shelldock doc config' to see the configuration reference.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "raw",
				Usage:       "print markdown without rendering",
				Destination: &cmd.raw,
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "keys",
				Usage:  "Show terminal keybindings",
				Action: cmd.show(keysGuide),
			},
			{
				Name:   "config",
				Usage:  "Show the configuration reference",
				Action: cmd.show(configGuide),
			},
		},
	})
	return app
}

func (cmd *DocCmd) show(guide func() string) cli.ActionFunc {
	return func(_ context.Context, c *cli.Command) error {
		return renderMarkdown(c.Root().Writer, guide(), cmd.raw)
	}
}

// renderMarkdown writes md to w, styled with glamour when stdout is a terminal.
func renderMarkdown(w io.Writer, md string, raw bool) error {
	if raw || !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := fmt.Fprintln(w, md)
		return err
	}

	width := 80
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 && cols < width {
		width = cols
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("tokyo-night"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func keysGuide() string {
	return `# Terminal Keybindings

The terminal pane behaves like a line-oriented console. Text before the
input boundary (shell output and the prompt) is read-only; only the pending
command line can be edited.

| Key | Action |
|-----|--------|
| ` + "`enter`" + ` | Submit the pending line to the shell |
| ` + "`up`" + ` | Previous command from history |
| ` + "`down`" + ` | Next command from history, then a fresh line |
| ` + "`left`" + ` / ` + "`backspace`" + ` | Move or delete, stopping at the input boundary |
| ` + "`home`" + ` | Jump to the start of the pending line |
| ` + "`end`" + ` | Jump to the end of the buffer |
| ` + "`tab`" + ` | Switch between the Terminal and Output panes |
| ` + "`ctrl+l`" + ` | Clear the focused pane |
| ` + "`pgup`" + ` / ` + "`pgdown`" + ` | Scroll the terminal pane |
| ` + "`ctrl+c`" + ` / ` + "`ctrl+q`" + ` | Stop the shell and quit |

Typing while the cursor sits inside read-only text moves it to the end of
the buffer first.
`
}

func configGuide() string {
	var runners strings.Builder
	for _, r := range runner.DefaultRunners() {
		fmt.Fprintf(&runners, "  - pattern: %q\n    command: %q\n", r.Pattern, r.Command)
	}

	sh := terminal.DefaultShell()

	return `# Configuration Reference

shelldock reads ` + "`$XDG_CONFIG_HOME/shelldock/config.yaml`" + ` (override with
` + "`--config`" + ` or ` + "`SHELLDOCK_CONFIG`" + `). Every key is optional.

` + "```yaml" + `
shell:
  path: ` + sh.Path + `          # shell executable
  args: []                 # extra arguments
  backend: pipe            # pipe or pty
  encoding: utf-8          # output encoding, e.g. windows-1252, or auto
  prompt: "{{ .Dir }}$ "   # prompt template; "" leaves prompting to the shell
  line_ending: ""          # defaults to \r\n on Windows, \n elsewhere
terminal:
  terminate_timeout: 3s    # grace period before the shell is killed
history:
  enabled: true
  max_entries: 500
output:
  max_lines: 1000
runners:
` + runners.String() + "```" + `

Runner commands are Go templates with ` + "`.Path`" + `, ` + "`.Dir`" + ` and ` + "`.Name`" + `,
plus ` + "`shq`" + ` (POSIX) and ` + "`psq`" + ` (PowerShell) for quoting and ` + "`base`" + `/` + "`dir`" + `
for paths. The first pattern that matches a file wins.

Run ` + "`shelldock config show`" + ` to print the effective configuration and
` + "`shelldock config validate`" + ` to check it.
`
}
