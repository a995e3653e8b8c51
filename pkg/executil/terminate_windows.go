//go:build windows

package executil

import (
	"errors"
	"os"
)

// Windows has no graceful console signal for a detached child; terminate is
// a kill.
func terminate(p *os.Process) error {
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
