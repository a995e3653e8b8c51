package terminal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/shelldock/internal/core/history"
	"github.com/hay-kot/shelldock/pkg/tmpl"
)

// Display messages written by the controller.
const (
	msgFinished   = "\nTerminal process finished.\n"
	msgNotRunning = "Error: Terminal process is not running.\n"
	fallbackPS    = "PS> "
)

// Options configures a Controller.
type Options struct {
	Shell Shell
	// Dir is the session working directory. Empty means the host's cwd.
	Dir string
	// Prompt is a template rendered with {{ .Dir }}. Empty disables the
	// controller prompt and leaves prompting to the shell.
	Prompt           string
	LineEnding       string
	TerminateTimeout time.Duration
	// Encoding names the shell's output encoding (default utf-8).
	Encoding string
	// History seeds the command history in submission order.
	History []string
	// Dispatch runs process notifications on the host's event loop. Nil runs
	// them inline on the notifying goroutine.
	Dispatch func(fn func())
	Logger   *zerolog.Logger
	// OnSubmit is called with every command appended to the history.
	OnSubmit func(command string)
	// OnExit is called after the shell exits and its output is relayed.
	OnExit func(code int)
}

// Controller bridges a child shell and a Display. It is not safe for
// concurrent use: every method, and every notification routed through
// Options.Dispatch, must run on the same event loop.
type Controller struct {
	proc     Process
	display  Display
	opts     Options
	log      zerolog.Logger
	history  *history.History
	decoder  *Decoder
	state    State
	dir      string
	boundary int
}

// New creates a controller for proc writing to display. The process is not
// spawned until Start.
func New(proc Process, display Display, opts Options) *Controller {
	if opts.Shell.Path == "" {
		opts.Shell = DefaultShell()
	}
	if opts.LineEnding == "" {
		opts.LineEnding = DefaultLineEnding()
	}
	if opts.TerminateTimeout <= 0 {
		opts.TerminateTimeout = DefaultTerminateTimeout
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(fn func()) { fn() }
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	dir := opts.Dir
	if dir == "" {
		dir, _ = os.Getwd()
	}

	c := &Controller{
		proc:    proc,
		display: display,
		opts:    opts,
		log:     logger.With().Str("component", "terminal").Logger(),
		history: history.New(opts.History...),
		dir:     dir,
		state:   StateUninitialized,
	}

	dec, err := NewDecoder(opts.Encoding)
	if err != nil {
		c.log.Warn().Err(err).Msg("falling back to utf-8 output decoding")
		dec, _ = NewDecoder("")
	}
	c.decoder = dec

	return c
}

// Start spawns the shell with merged stdout and stderr. Spawn failures are
// written to the display and leave the controller in StateFailed.
func (c *Controller) Start(ctx context.Context) {
	if c.state != StateUninitialized {
		return
	}
	c.state = StateStarting

	c.proc.OnOutputReady(func() { c.opts.Dispatch(c.relayOutput) })
	c.proc.OnExited(func(code int) {
		c.opts.Dispatch(func() { c.handleExit(code) })
	})

	err := c.proc.Start(ctx, Command{
		Path: c.opts.Shell.Path,
		Args: c.opts.Shell.Args,
		Dir:  c.dir,
	})
	if err != nil {
		c.state = StateFailed
		c.log.Error().Err(err).Str("shell", c.opts.Shell.Path).Msg("terminal process failed to start")
		c.write(fmt.Sprintf("Error starting terminal process: %v\n", err))
		return
	}

	c.state = StateReady
	c.log.Info().Str("shell", c.opts.Shell.Path).Str("dir", c.dir).Msg("terminal connected")
	c.write(fmt.Sprintf("Terminal connected. %s is ready.\n", c.opts.Shell.Name()))
	c.prompt()
}

// HandleKey applies the command-line discipline to a key press and reports
// whether the event was consumed. Unconsumed events should receive the
// display's default editing.
func (c *Controller) HandleKey(ev KeyEvent) bool {
	if c.display.Cursor() < c.boundary {
		c.display.SetCursor(c.display.Len())
	}

	switch ev.Key {
	case KeyEnter:
		c.Submit()
		return true
	case KeyUp:
		if line, ok := c.history.Prev(); ok {
			c.replacePending(line)
		}
		return true
	case KeyDown:
		if line, ok := c.history.Next(); ok {
			c.replacePending(line)
		}
		return true
	case KeyBackspace, KeyLeft:
		return c.display.Cursor() <= c.boundary
	case KeyHome:
		c.display.SetCursor(c.boundary)
		return true
	default:
		return false
	}
}

// Submit sends the pending line to the shell as if Enter was pressed.
func (c *Controller) Submit() {
	command := strings.TrimSpace(c.PendingLine())
	c.write("\n")
	c.Execute(command)
}

// Execute records command in the history and writes it to the shell. An
// empty command only re-emits the prompt.
func (c *Controller) Execute(command string) {
	if strings.TrimSpace(command) == "" {
		c.prompt()
		return
	}

	c.history.Push(command)
	if c.opts.OnSubmit != nil {
		c.opts.OnSubmit(command)
	}

	if !c.Running() {
		c.log.Warn().Str("command", command).Msg("command dropped, process not running")
		c.write(msgNotRunning)
		return
	}

	if _, err := c.proc.Write([]byte(command + c.opts.LineEnding)); err != nil {
		c.log.Error().Err(err).Str("command", command).Msg("write to terminal process")
		c.write(msgNotRunning)
		return
	}

	c.state = StateExecuting
	c.log.Debug().Str("command", command).Msg("command sent")
}

// inputCloser is implemented by backends that can signal end of input.
type inputCloser interface {
	CloseInput() error
}

// EndInput tells the shell no more input follows. Backends that cannot close
// their input are sent the exit command instead.
func (c *Controller) EndInput() {
	if !c.Running() {
		return
	}
	if ic, ok := c.proc.(inputCloser); ok {
		if err := ic.CloseInput(); err == nil {
			return
		}
	}
	if _, err := c.proc.Write([]byte("exit" + c.opts.LineEnding)); err != nil {
		c.log.Debug().Err(err).Msg("send exit")
	}
}

// Clear wipes the display and re-emits the prompt.
func (c *Controller) Clear() {
	c.display.Clear()
	c.boundary = 0
	c.prompt()
}

// ChangeDir moves the session to dir by running the shell's cd command.
// Invalid directories are reported on the display.
func (c *Controller) ChangeDir(dir string) {
	abs, err := filepath.Abs(dir)
	if err == nil {
		var info os.FileInfo
		info, err = os.Stat(abs)
		if err == nil && !info.IsDir() {
			err = fmt.Errorf("%s is not a directory", abs)
		}
	}
	if err != nil {
		c.write(fmt.Sprintf("Error: cannot change directory: %v\n", err))
		return
	}

	command, err := c.cdCommand(abs)
	if err != nil {
		c.write(fmt.Sprintf("Error: cannot change directory: %v\n", err))
		return
	}

	c.dir = abs
	c.Execute(command)
}

// Shutdown terminates the shell, escalating to a kill when it does not exit
// within the terminate timeout. Calls after the first are no-ops.
func (c *Controller) Shutdown() {
	if c.state == StateTerminating || c.state == StateStopped {
		return
	}
	c.state = StateTerminating

	if c.proc.Running() {
		if err := c.proc.Terminate(); err != nil {
			c.log.Debug().Err(err).Msg("terminate request failed")
		}
		if !c.proc.WaitExit(c.opts.TerminateTimeout) {
			c.log.Warn().Dur("timeout", c.opts.TerminateTimeout).Msg("terminal process did not exit, killing")
			_ = c.proc.Kill()
		}
	}

	c.state = StateStopped
	c.log.Info().Msg("terminal session stopped")
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Running reports whether the shell process is alive.
func (c *Controller) Running() bool {
	if c.state == StateFailed || c.state == StateUninitialized {
		return false
	}
	return c.proc.Running()
}

// Boundary returns the offset where the editable region begins.
func (c *Controller) Boundary() int {
	return c.boundary
}

// PendingLine returns the text between the input boundary and the end of the
// display.
func (c *Controller) PendingLine() string {
	return c.display.Text(c.boundary, c.display.Len())
}

// History returns submitted commands in order.
func (c *Controller) History() []string {
	return c.history.Entries()
}

// HistoryIndex returns the history navigation cursor.
func (c *Controller) HistoryIndex() int {
	return c.history.Index()
}

// Dir returns the session working directory.
func (c *Controller) Dir() string {
	return c.dir
}

// Shell returns the shell backing the session.
func (c *Controller) Shell() Shell {
	return c.opts.Shell
}

// Encoding names the output decoding in use, "auto" until detection settles.
func (c *Controller) Encoding() string {
	return c.decoder.Encoding()
}

func (c *Controller) relayOutput() {
	data := c.proc.ReadAvailable()
	if len(data) == 0 {
		return
	}
	if text := c.decoder.Decode(data); text != "" {
		c.write(text)
	}
	if c.state == StateExecuting {
		c.state = StateReady
	}
}

func (c *Controller) handleExit(code int) {
	c.relayOutput()
	if rest := c.decoder.Flush(); rest != "" {
		c.write(rest)
	}
	c.log.Info().Int("exit_code", code).Msg("terminal process finished")
	c.write(msgFinished)
	if c.state == StateExecuting {
		c.state = StateReady
	}
	if c.opts.OnExit != nil {
		c.opts.OnExit(code)
	}
}

// write appends text and re-anchors the input boundary at the new end.
func (c *Controller) write(text string) {
	c.display.Append(text)
	end := c.display.Len()
	c.display.SetCursor(end)
	c.boundary = end
}

func (c *Controller) prompt() {
	if c.opts.Prompt == "" {
		return
	}
	p, err := tmpl.Render(c.opts.Prompt, struct{ Dir string }{Dir: c.dir})
	if err != nil {
		c.log.Debug().Err(err).Msg("render prompt")
		p = fallbackPS
	}
	c.write(p)
}

func (c *Controller) replacePending(line string) {
	c.display.Delete(c.boundary, c.display.Len())
	c.display.Append(line)
	c.display.SetCursor(c.display.Len())
}

func (c *Controller) cdCommand(dir string) (string, error) {
	if c.opts.Shell.Family == FamilyWindows {
		if strings.EqualFold(c.opts.Shell.Name(), "cmd") {
			return fmt.Sprintf(`cd /d "%s"`, dir), nil
		}
		return tmpl.Render("Set-Location -LiteralPath {{ psq .Dir }}", struct{ Dir string }{Dir: dir})
	}
	return tmpl.Render("cd {{ shq .Dir }}", struct{ Dir string }{Dir: dir})
}
