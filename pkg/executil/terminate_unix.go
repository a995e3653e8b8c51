//go:build !windows

package executil

import (
	"errors"
	"os"
	"syscall"
)

func terminate(p *os.Process) error {
	if err := p.Signal(syscall.SIGTERM); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
