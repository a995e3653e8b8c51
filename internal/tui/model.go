// Package tui implements the Bubble Tea host for a shell session: a terminal
// pane driven by terminal.Controller and the Output pane.
package tui

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/shelldock/internal/core/history"
	"github.com/hay-kot/shelldock/internal/output"
	"github.com/hay-kot/shelldock/internal/terminal"
)

// pane identifies which pane receives key input.
type pane int

const (
	paneTerminal pane = iota
	paneOutput
)

// Options configures the TUI.
type Options struct {
	// Terminal configures the session controller. Dispatch, OnSubmit and
	// OnExit are owned by the TUI and overwritten.
	Terminal terminal.Options
	Panel    *output.Panel
	Store    history.Store // optional, persists submitted commands
	// InitialDir, when set, is entered once the session is ready, before
	// InitialCommand runs.
	InitialDir string
	// InitialCommand runs once the session is ready.
	InitialCommand string
}

// resizer is implemented by process backends that track a window size.
type resizer interface {
	Resize(cols, rows int) error
}

// dispatchMsg carries a controller notification onto the event loop.
type dispatchMsg struct {
	fn func()
}

// startMsg starts the shell from inside the event loop.
type startMsg struct{}

// programRef routes controller notifications to the running program.
type programRef struct {
	p atomic.Pointer[tea.Program]
}

// dispatch posts fn to the program. Without an attached program fn runs
// inline.
func (r *programRef) dispatch(fn func()) {
	if p := r.p.Load(); p != nil {
		p.Send(dispatchMsg{fn: fn})
		return
	}
	fn()
}

// submissions collects commands submitted during an update so they can be
// persisted off the event loop.
type submissions struct {
	commands []string
	exited   bool
	code     int
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	ctx     context.Context
	ctrl    *terminal.Controller
	buf     *terminal.Buffer
	proc    terminal.Process
	panel   *output.Panel
	store   history.Store
	program *programRef
	pending *submissions
	keys    keyMap

	focus      pane
	termView   viewport.Model
	outView    viewport.Model
	outVersion uint64
	width      int
	height     int
	initialDir string
	initial    string
	quitting   bool
}

// New creates a new TUI model for proc.
func New(ctx context.Context, proc terminal.Process, opts Options) Model {
	if opts.Panel == nil {
		opts.Panel = output.NewPanel(0)
	}

	var (
		buf     = terminal.NewBuffer(nil)
		program = &programRef{}
		pending = &submissions{}
	)

	topts := opts.Terminal
	topts.Dispatch = program.dispatch
	topts.OnSubmit = func(command string) {
		pending.commands = append(pending.commands, command)
	}
	topts.OnExit = func(code int) {
		pending.exited = true
		pending.code = code
	}

	return Model{
		ctx:        ctx,
		ctrl:       terminal.New(proc, buf, topts),
		buf:        buf,
		proc:       proc,
		panel:      opts.Panel,
		store:      opts.Store,
		program:    program,
		pending:    pending,
		keys:       defaultKeyMap(),
		focus:      paneTerminal,
		termView:   viewport.New(0, 0),
		outView:    viewport.New(0, 0),
		initialDir: opts.InitialDir,
		initial:    opts.InitialCommand,
	}
}

// Attach routes controller notifications through p. It must be called before
// p.Run.
func (m Model) Attach(p *tea.Program) {
	m.program.p.Store(p)
}

// Controller returns the session controller.
func (m Model) Controller() *terminal.Controller {
	return m.ctrl
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return startMsg{} },
		scheduleOutputTick(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case startMsg:
		if m.ctrl.State() != terminal.StateUninitialized {
			return m, nil
		}
		m.ctrl.Start(m.ctx)
		if m.ctrl.State() == terminal.StateFailed {
			m.panel.AppendError(fmt.Sprintf("%s failed to start", m.ctrl.Shell().Name()))
		} else {
			m.panel.AppendInfo(fmt.Sprintf("%s started in %s", m.ctrl.Shell().Name(), m.ctrl.Dir()))
			if m.initialDir != "" {
				m.ctrl.ChangeDir(m.initialDir)
			}
			if m.initial != "" {
				m.ctrl.Execute(m.initial)
			}
		}
		m.initialDir, m.initial = "", ""
		m.refreshTerminal(true)
		return m, m.flushSubmissions()

	case dispatchMsg:
		follow := m.termView.AtBottom()
		msg.fn()
		m.refreshTerminal(follow)
		return m, m.flushSubmissions()

	case outputTickMsg:
		m.refreshOutput()
		return m, scheduleOutputTick()

	case historySavedMsg:
		if msg.err != nil {
			m.panel.AppendError(fmt.Sprintf("save command history: %v", msg.err))
		} else {
			m.panel.AppendDebug(fmt.Sprintf("saved %d command(s) to history", msg.saved))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Shutdown()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == paneTerminal {
			m.focus = paneOutput
		} else {
			m.focus = paneTerminal
		}
		m.refreshTerminal(false)
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.focus == paneOutput {
			m.panel.Clear()
			m.refreshOutput()
			return m, nil
		}
		m.ctrl.Clear()
		m.refreshTerminal(true)
		return m, nil
	}

	if m.focus == paneOutput {
		var cmd tea.Cmd
		m.outView, cmd = m.outView.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.PageUp):
		m.termView.ScrollUp(max(1, m.termView.Height-1))
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.termView.ScrollDown(max(1, m.termView.Height-1))
		return m, nil
	}

	ev, ok := translateKey(msg)
	if !ok {
		return m, nil
	}
	if !m.ctrl.HandleKey(ev) {
		m.buf.Edit(ev)
	}
	m.refreshTerminal(true)
	return m, m.flushSubmissions()
}

// flushSubmissions persists commands submitted since the last call and logs
// the shell's exit.
func (m Model) flushSubmissions() tea.Cmd {
	if m.pending.exited {
		m.panel.AppendInfo(fmt.Sprintf("Terminal process finished with exit code %d", m.pending.code))
		m.pending.exited = false
	}

	if len(m.pending.commands) == 0 {
		return nil
	}
	commands := m.pending.commands
	m.pending.commands = nil

	if m.store == nil {
		return nil
	}
	return saveHistory(m.store, m.ctrl.Dir(), commands)
}

// layout sizes both panes: the terminal pane takes two thirds of the height.
func (m *Model) layout() {
	// Two borders per pane, one title line per pane, one status line.
	inner := m.height - 2*2 - 2 - 1
	if inner < 2 {
		inner = 2
	}
	termHeight := inner * 2 / 3
	outHeight := inner - termHeight

	width := max(1, m.width-2)
	m.termView.Width = width
	m.termView.Height = termHeight
	m.outView.Width = width
	m.outView.Height = outHeight

	if r, ok := m.proc.(resizer); ok {
		if err := r.Resize(width, termHeight); err != nil {
			log.Debug().Err(err).Msg("resize pty")
		}
	}

	m.refreshTerminal(true)
	m.outVersion = 0
	m.refreshOutput()
}

// refreshTerminal re-renders the terminal pane. With follow set the view
// scrolls to the end of the buffer.
func (m *Model) refreshTerminal(follow bool) {
	m.termView.SetContent(renderBuffer(m.buf, m.termView.Width, m.focus == paneTerminal))
	if follow {
		m.termView.GotoBottom()
	}
}

func (m *Model) refreshOutput() {
	v := m.panel.Version()
	if v == m.outVersion && v != 0 {
		return
	}
	m.outVersion = v
	atBottom := m.outView.AtBottom()
	m.outView.SetContent(wrap(m.panel.Text(), m.outView.Width))
	if atBottom {
		m.outView.GotoBottom()
	}
}
