package executil

import (
	"context"
	"sync"
	"time"

	"github.com/hay-kot/shelldock/internal/terminal"
)

// FakeProcess is a scripted terminal.Process for tests. Output and exit are
// driven explicitly with Emit and Exit, and callbacks fire on the caller's
// goroutine.
type FakeProcess struct {
	mu sync.Mutex

	// StartErr is returned by Start when set.
	StartErr error
	// ExitOnTerminate makes Terminate stop the process like a cooperative shell.
	ExitOnTerminate bool

	Command      terminal.Command
	Writes       []string
	Terminates   int
	Kills        int
	WaitTimeouts []time.Duration

	running  bool
	out      []byte
	onOutput func()
	onExit   func(code int)
}

func (f *FakeProcess) Start(_ context.Context, cmd terminal.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Command = cmd
	if f.StartErr != nil {
		return f.StartErr
	}
	f.running = true
	return nil
}

func (f *FakeProcess) OnOutputReady(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onOutput = fn
}

func (f *FakeProcess) OnExited(fn func(code int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onExit = fn
}

func (f *FakeProcess) ReadAvailable() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.out
	f.out = nil
	return out
}

func (f *FakeProcess) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return 0, terminal.ErrNotRunning
	}
	f.Writes = append(f.Writes, string(p))
	return len(p), nil
}

func (f *FakeProcess) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *FakeProcess) Terminate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Terminates++
	if f.ExitOnTerminate {
		f.running = false
	}
	return nil
}

func (f *FakeProcess) WaitExit(timeout time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.WaitTimeouts = append(f.WaitTimeouts, timeout)
	return !f.running
}

func (f *FakeProcess) Kill() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Kills++
	f.running = false
	return nil
}

// Emit buffers output and fires the output-ready callback.
func (f *FakeProcess) Emit(output string) {
	f.mu.Lock()
	f.out = append(f.out, output...)
	fn := f.onOutput
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// EmitBytes buffers raw output and fires the output-ready callback.
func (f *FakeProcess) EmitBytes(output []byte) {
	f.Emit(string(output))
}

// Exit stops the process and fires the exit callback.
func (f *FakeProcess) Exit(code int) {
	f.mu.Lock()
	f.running = false
	fn := f.onExit
	f.mu.Unlock()
	if fn != nil {
		fn(code)
	}
}
