//go:build !windows

package executil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/shelldock/internal/terminal"
)

// collector gathers output and exit notifications from a real process.
type collector struct {
	mu     sync.Mutex
	output strings.Builder
	exited chan int
}

func watch(p terminal.Process) *collector {
	c := &collector{exited: make(chan int, 1)}
	p.OnOutputReady(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.output.Write(p.ReadAvailable())
	})
	p.OnExited(func(code int) { c.exited <- code })
	return c
}

func (c *collector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output.String()
}

func TestPipeProcess_MergesOutputAndReportsExit(t *testing.T) {
	p := NewPipeProcess()
	c := watch(p)

	err := p.Start(context.Background(), terminal.Command{
		Path: "sh",
		Args: []string{"-c", "echo out; echo err 1>&2; exit 3"},
	})
	require.NoError(t, err)

	select {
	case code := <-c.exited:
		assert.Equal(t, 3, code)
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}

	assert.Contains(t, c.String(), "out")
	assert.Contains(t, c.String(), "err")
	assert.False(t, p.Running())
}

func TestPipeProcess_WriteAndTerminate(t *testing.T) {
	p := NewPipeProcess()
	c := watch(p)

	require.NoError(t, p.Start(context.Background(), terminal.Command{Path: "cat"}))
	require.True(t, p.Running())

	_, err := p.Write([]byte("hello\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(c.String(), "hello")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, p.Terminate())
	assert.True(t, p.WaitExit(5*time.Second))
	assert.False(t, p.Running())

	_, err = p.Write([]byte("late\n"))
	assert.ErrorIs(t, err, terminal.ErrNotRunning)
}

func TestPipeProcess_SpawnFailure(t *testing.T) {
	p := NewPipeProcess()

	err := p.Start(context.Background(), terminal.Command{Path: "/nonexistent/shell-binary"})
	require.Error(t, err)
	assert.ErrorIs(t, err, terminal.ErrSpawn)
	assert.False(t, p.Running())
	assert.True(t, p.WaitExit(time.Millisecond), "unstarted process counts as exited")
	assert.NoError(t, p.Kill())
}

func TestPipeProcess_CloseInputEndsShell(t *testing.T) {
	p := NewPipeProcess()
	c := watch(p)

	require.NoError(t, p.Start(context.Background(), terminal.Command{Path: "sh"}))

	_, err := p.Write([]byte("echo done\n"))
	require.NoError(t, err)
	require.NoError(t, p.CloseInput())

	select {
	case code := <-c.exited:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not exit after input closed")
	}
	assert.Contains(t, c.String(), "done")
}

func TestPipeProcess_OutlivesStartContext(t *testing.T) {
	p := NewPipeProcess()
	c := watch(p)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx, terminal.Command{
		Path: "sh",
		Args: []string{"-c", "trap 'echo graceful; exit 0' TERM; echo ready; while :; do sleep 0.05; done"},
	}))
	require.Eventually(t, func() bool {
		return strings.Contains(c.String(), "ready")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	time.Sleep(200 * time.Millisecond)
	require.True(t, p.Running(), "cancelling the start context must not stop the shell")

	require.NoError(t, p.Terminate())
	select {
	case code := <-c.exited:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not exit after terminate")
	}
	assert.Contains(t, c.String(), "graceful")
}

func TestPipeProcess_CancelledContextFailsSpawn(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewPipeProcess().Start(ctx, terminal.Command{Path: "sh"})
	require.ErrorIs(t, err, terminal.ErrSpawn)
	assert.ErrorIs(t, err, context.Canceled)
}
