//go:build windows

package executil

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/shelldock/internal/terminal"
)

var errPtyUnsupported = errors.New("pty backend is not supported on windows")

// PtyProcess is unavailable on Windows; Start always fails so the session
// reports a spawn failure.
type PtyProcess struct {
	proc
	Cols int
	Rows int
}

// NewPtyProcess returns a process whose Start always fails.
func NewPtyProcess(cols, rows int) *PtyProcess {
	return &PtyProcess{Cols: cols, Rows: rows}
}

func (p *PtyProcess) Start(_ context.Context, c terminal.Command) error {
	return fmt.Errorf("%w: %s: %w", terminal.ErrSpawn, c.Path, errPtyUnsupported)
}

func (p *PtyProcess) Write([]byte) (int, error) {
	return 0, terminal.ErrNotRunning
}

func (p *PtyProcess) Terminate() error {
	return nil
}

func (p *PtyProcess) Resize(cols, rows int) error {
	p.Cols, p.Rows = cols, rows
	return nil
}
