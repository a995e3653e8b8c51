package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/hay-kot/shelldock/internal/terminal"
)

const probeMarker = "shelldock-probe-ok"

// ShellCheck verifies the configured shell can be found and answers a command.
type ShellCheck struct {
	shell      terminal.Shell
	lineEnding string
	newProcess func() terminal.Process
	timeout    time.Duration
}

// NewShellCheck creates a shell check. newProcess returns an unstarted
// backend for each probe.
func NewShellCheck(shell terminal.Shell, lineEnding string, newProcess func() terminal.Process) *ShellCheck {
	if lineEnding == "" {
		lineEnding = terminal.DefaultLineEnding()
	}
	return &ShellCheck{
		shell:      shell,
		lineEnding: lineEnding,
		newProcess: newProcess,
		timeout:    5 * time.Second,
	}
}

func (c *ShellCheck) Name() string {
	return "Shell"
}

func (c *ShellCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	path, err := exec.LookPath(c.shell.Path)
	if err != nil {
		result.fail("Executable", fmt.Sprintf("%s not found", c.shell.Path))
		return result
	}
	result.pass("Executable", path)

	start := time.Now()
	if err := c.probe(ctx); err != nil {
		result.fail("Session", err.Error())
		return result
	}
	result.pass("Session", fmt.Sprintf("responded in %s", time.Since(start).Round(time.Millisecond)))
	return result
}

// probe starts the shell, echoes a marker and waits for it to come back.
func (c *ShellCheck) probe(ctx context.Context) error {
	proc := c.newProcess()

	var (
		mu     sync.Mutex
		out    strings.Builder
		seen   = make(chan struct{}, 1)
		exited = make(chan int, 1)
	)

	proc.OnOutputReady(func() {
		mu.Lock()
		out.Write(proc.ReadAvailable())
		hit := strings.Contains(out.String(), probeMarker)
		mu.Unlock()
		if hit {
			select {
			case seen <- struct{}{}:
			default:
			}
		}
	})
	proc.OnExited(func(code int) { exited <- code })

	if err := proc.Start(ctx, terminal.Command{Path: c.shell.Path, Args: c.shell.Args}); err != nil {
		return err
	}
	defer func() {
		_ = proc.Terminate()
		if !proc.WaitExit(time.Second) {
			_ = proc.Kill()
		}
	}()

	if _, err := proc.Write([]byte("echo " + probeMarker + c.lineEnding)); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}

	select {
	case <-seen:
		return nil
	case code := <-exited:
		return fmt.Errorf("shell exited with code %d before answering", code)
	case <-time.After(c.timeout):
		return fmt.Errorf("no response within %s", c.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
