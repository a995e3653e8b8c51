// Package executil provides the child process backends for shell sessions.
package executil

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"
)

// readerGrace bounds how long exit notification waits for the output reader
// to drain after the process exits. Grandchildren holding the pipe open can
// otherwise delay it forever.
const readerGrace = 250 * time.Millisecond

// proc holds the buffering and lifecycle state shared by the backends.
type proc struct {
	mu       sync.Mutex
	cmd      *exec.Cmd
	out      []byte
	onOutput func()
	onExit   func(code int)
	running  atomic.Bool
	exited   chan struct{}
}

// OnOutputReady registers fn to be called whenever new output is buffered.
func (p *proc) OnOutputReady(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onOutput = fn
}

// OnExited registers fn to be called once after the process exits.
func (p *proc) OnExited(fn func(code int)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onExit = fn
}

// ReadAvailable drains buffered output.
func (p *proc) ReadAvailable() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.out
	p.out = nil
	return out
}

// Running reports whether the process is alive.
func (p *proc) Running() bool {
	return p.running.Load()
}

// WaitExit waits up to timeout for the process to exit.
func (p *proc) WaitExit(timeout time.Duration) bool {
	if p.exited == nil {
		return true
	}
	select {
	case <-p.exited:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Kill forcibly stops the process.
func (p *proc) Kill() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *proc) started(cmd *exec.Cmd) {
	p.cmd = cmd
	p.exited = make(chan struct{})
	p.running.Store(true)
}

// pump copies output from r into the buffer until r fails.
func (p *proc) pump(r io.Reader, done chan<- struct{}) {
	defer close(done)
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			p.mu.Lock()
			p.out = append(p.out, buf[:n]...)
			fn := p.onOutput
			p.mu.Unlock()
			if fn != nil {
				fn()
			}
		}
		if err != nil {
			return
		}
	}
}

// monitor waits for the process, then fires the exit callback once output
// has been drained.
func (p *proc) monitor(readerDone <-chan struct{}, cleanup func()) {
	code := 0
	if err := p.cmd.Wait(); err != nil {
		code = -1
	}
	if p.cmd.ProcessState != nil {
		code = p.cmd.ProcessState.ExitCode()
	}

	p.running.Store(false)
	close(p.exited)

	select {
	case <-readerDone:
	case <-time.After(readerGrace):
	}
	if cleanup != nil {
		cleanup()
	}

	p.mu.Lock()
	fn := p.onExit
	p.mu.Unlock()
	if fn != nil {
		fn(code)
	}
}
