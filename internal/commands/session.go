package commands

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/hay-kot/shelldock/internal/core/config"
	"github.com/hay-kot/shelldock/internal/core/history"
	"github.com/hay-kot/shelldock/internal/terminal"
	"github.com/hay-kot/shelldock/pkg/executil"
	"github.com/hay-kot/shelldock/pkg/randid"
)

// interactive reports whether the TUI can be used on the current streams.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// newProcess returns the process backend selected by the configuration.
func newProcess(cfg *config.Config) terminal.Process {
	if cfg.Shell.Backend == config.BackendPty {
		return executil.NewPtyProcess(80, 24)
	}
	return executil.NewPipeProcess()
}

// terminalOptions builds controller options from the configuration, seeding
// the history from store when one is given.
func terminalOptions(ctx context.Context, cfg *config.Config, store history.Store) terminal.Options {
	logger := log.Logger

	opts := terminal.Options{
		Shell:            cfg.TerminalShell(),
		Prompt:           cfg.Prompt(),
		LineEnding:       cfg.Shell.LineEnding,
		TerminateTimeout: cfg.Terminal.TerminateTimeout,
		Encoding:         cfg.Shell.Encoding,
		Logger:           &logger,
	}

	if store != nil {
		entries, err := store.List(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load command history")
		} else {
			opts.History = history.Commands(entries)
		}
	}

	return opts
}

// saveEntry persists a submitted command.
func saveEntry(store history.Store, command, dir string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := store.Save(ctx, history.Entry{
		ID:        randid.New(),
		Command:   command,
		Dir:       dir,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to save command history")
	}
}

// plainSession runs a line-mode session: every line read from in is executed
// in the shell and output is mirrored to out. The session ends when the shell
// exits, after in reaches EOF, or when ctx is cancelled.
type plainSession struct {
	proc    terminal.Process
	opts    terminal.Options
	store   history.Store
	in      io.Reader
	out     io.Writer
	dir     string // entered before initial runs
	initial string
}

func (s plainSession) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var (
		loop = terminal.NewLoop(64)
		buf  = terminal.NewBuffer(s.out)
		ctrl *terminal.Controller
	)

	opts := s.opts
	opts.Dispatch = loop.Post
	opts.OnExit = func(int) { loop.Stop() }
	if s.store != nil {
		opts.OnSubmit = func(command string) { saveEntry(s.store, command, ctrl.Dir()) }
	}
	ctrl = terminal.New(s.proc, buf, opts)

	loop.Post(func() {
		ctrl.Start(ctx)
		if ctrl.State() == terminal.StateFailed {
			loop.Stop()
			return
		}
		if s.dir != "" {
			ctrl.ChangeDir(s.dir)
		}
		if s.initial != "" {
			ctrl.Execute(s.initial)
		}
	})

	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			line := scanner.Text()
			loop.Post(func() { ctrl.Execute(line) })
		}
		loop.Post(ctrl.EndInput)
	}()

	err := loop.Run(ctx)
	ctrl.Shutdown()

	if ctrl.State() == terminal.StateFailed {
		return terminal.ErrSpawn
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
