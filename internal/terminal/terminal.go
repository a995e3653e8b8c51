// Package terminal implements the interactive shell session controller: it
// relays a child shell's output into a display buffer and enforces a
// single-line command discipline on top of free-form text editing.
package terminal

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

var (
	// ErrSpawn is returned by a Process when the shell cannot be started.
	ErrSpawn = errors.New("spawn shell")
	// ErrNotRunning is returned when input is written to an exited process.
	ErrNotRunning = errors.New("terminal process is not running")
)

// DefaultTerminateTimeout bounds the graceful shutdown wait before a forced kill.
const DefaultTerminateTimeout = 3000 * time.Millisecond

// State is the lifecycle state of a Controller.
type State int

const (
	StateUninitialized State = iota
	StateStarting
	StateReady
	StateExecuting
	StateTerminating
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateExecuting:
		return "executing"
	case StateTerminating:
		return "terminating"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Key identifies a keystroke delivered to the controller.
type Key int

const (
	KeyOther Key = iota
	KeyRunes
	KeyEnter
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyBackspace
	KeyDelete
)

// KeyEvent is a key press. Text carries the inserted characters for KeyRunes.
type KeyEvent struct {
	Key  Key
	Text string
}

// Display is the editable text surface the controller writes to. Offsets are
// rune offsets into the whole buffer.
type Display interface {
	Append(text string)
	Len() int
	Cursor() int
	SetCursor(pos int)
	Text(from, to int) string
	Delete(from, to int)
	Clear()
}

// Command describes the shell to spawn.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  []string
}

// Process is the child shell handle. Output from stdout and stderr is merged
// and buffered until drained with ReadAvailable. Callbacks registered with
// OnOutputReady and OnExited may fire from any goroutine.
type Process interface {
	// Start spawns the process. A nil error means the process is running.
	Start(ctx context.Context, cmd Command) error
	OnOutputReady(fn func())
	OnExited(fn func(code int))
	// ReadAvailable drains buffered output without blocking.
	ReadAvailable() []byte
	Write(p []byte) (int, error)
	Running() bool
	// Terminate requests a graceful exit.
	Terminate() error
	// WaitExit waits up to timeout and reports whether the process exited.
	WaitExit(timeout time.Duration) bool
	Kill() error
}

// Family groups shells by prompt and quoting conventions.
type Family int

const (
	FamilyPOSIX Family = iota
	FamilyWindows
)

// Shell is the executable backing a session.
type Shell struct {
	Path   string
	Args   []string
	Family Family
}

// Name returns the executable name without directory or extension.
func (s Shell) Name() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DefaultShell returns the platform default shell.
func DefaultShell() Shell {
	if runtime.GOOS == "windows" {
		return Shell{Path: "powershell.exe", Family: FamilyWindows}
	}
	return Shell{Path: "bash", Family: FamilyPOSIX}
}

// DetectFamily guesses the shell family from the executable name.
func DetectFamily(path string) Family {
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(base, ".exe")
	switch base {
	case "powershell", "pwsh", "cmd":
		return FamilyWindows
	default:
		return FamilyPOSIX
	}
}

// DefaultPrompt returns the prompt template used for a shell family.
func DefaultPrompt(f Family) string {
	if f == FamilyWindows {
		return "PS {{ .Dir }}> "
	}
	return "{{ .Dir }}$ "
}

// DefaultLineEnding is the terminator appended to commands written to the shell.
func DefaultLineEnding() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}
