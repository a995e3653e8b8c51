//go:build !windows

package executil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/hay-kot/shelldock/internal/terminal"
)

// PtyProcess runs a shell on a pseudo-terminal so it behaves interactively.
// The pty is switched to raw mode so the kernel neither echoes input nor
// rewrites line endings.
type PtyProcess struct {
	proc
	ptmx *os.File
	Cols int
	Rows int
}

// NewPtyProcess returns an unstarted pty-backed process.
func NewPtyProcess(cols, rows int) *PtyProcess {
	return &PtyProcess{Cols: cols, Rows: rows}
}

// Start spawns the shell on a new pty.
func (p *PtyProcess) Start(ctx context.Context, c terminal.Command) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", terminal.ErrSpawn, err)
	}

	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), "TERM=dumb")
	cmd.Env = append(cmd.Env, c.Env...)

	ptmx, err := pty.StartWithSize(cmd, p.winsize())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", terminal.ErrSpawn, c.Path, err)
	}
	// Best effort; a shell with its own line editor will still echo.
	_, _ = term.MakeRaw(int(ptmx.Fd()))

	p.ptmx = ptmx
	p.started(cmd)

	readerDone := make(chan struct{})
	go p.pump(ptmx, readerDone)
	go p.monitor(readerDone, func() { _ = ptmx.Close() })

	return nil
}

// Write sends input to the pty.
func (p *PtyProcess) Write(b []byte) (int, error) {
	if !p.Running() {
		return 0, terminal.ErrNotRunning
	}
	n, err := p.ptmx.Write(b)
	if err != nil {
		return n, fmt.Errorf("write pty: %w", err)
	}
	return n, nil
}

// Terminate hangs up the pty's session, which interactive shells honour.
func (p *PtyProcess) Terminate() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Signal(syscall.SIGHUP); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Resize changes the pty dimensions.
func (p *PtyProcess) Resize(cols, rows int) error {
	p.Cols, p.Rows = cols, rows
	if p.ptmx == nil || !p.Running() {
		return nil
	}
	return pty.Setsize(p.ptmx, p.winsize())
}

func (p *PtyProcess) winsize() *pty.Winsize {
	cols, rows := p.Cols, p.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	return &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}
}
