package executil

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/hay-kot/shelldock/internal/terminal"
)

// PipeProcess runs a shell with stdin on a pipe and stdout and stderr merged
// onto a single pipe.
type PipeProcess struct {
	proc
	stdin io.WriteCloser
}

// NewPipeProcess returns an unstarted pipe-backed process.
func NewPipeProcess() *PipeProcess {
	return &PipeProcess{}
}

// Start spawns the shell. ctx only gates the spawn: the process belongs to
// the caller until Terminate or Kill, so cancelling ctx later does not stop it.
func (p *PipeProcess) Start(ctx context.Context, c terminal.Command) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", terminal.ErrSpawn, err)
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("%w: create output pipe: %w", terminal.ErrSpawn, err)
	}

	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)
	cmd.Stdout = pw
	cmd.Stderr = pw

	stdin, err := cmd.StdinPipe()
	if err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return fmt.Errorf("%w: create input pipe: %w", terminal.ErrSpawn, err)
	}

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return fmt.Errorf("%w: %s: %w", terminal.ErrSpawn, c.Path, err)
	}
	// The child holds its own copy; closing ours lets the reader see EOF.
	_ = pw.Close()

	p.stdin = stdin
	p.started(cmd)

	readerDone := make(chan struct{})
	go p.pump(pr, readerDone)
	go p.monitor(readerDone, func() {
		_ = pr.Close()
		_ = stdin.Close()
	})

	return nil
}

// Write sends input to the shell's stdin.
func (p *PipeProcess) Write(b []byte) (int, error) {
	if !p.Running() {
		return 0, terminal.ErrNotRunning
	}
	n, err := p.stdin.Write(b)
	if err != nil {
		return n, fmt.Errorf("write stdin: %w", err)
	}
	return n, nil
}

// Terminate asks the shell to exit.
func (p *PipeProcess) Terminate() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	return terminate(p.cmd.Process)
}

// CloseInput closes the shell's stdin so it exits once pending input is
// consumed.
func (p *PipeProcess) CloseInput() error {
	if p.stdin == nil {
		return terminal.ErrNotRunning
	}
	return p.stdin.Close()
}
