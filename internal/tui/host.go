package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/teleprompt/internal/engine"
	"github.com/roach88/teleprompt/internal/input"
	"github.com/roach88/teleprompt/internal/playback"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// openTerminal opens the controlling terminal.
var openTerminal = func() (*os.File, error) {
	return os.OpenFile("/dev/tty", os.O_RDWR, 0)
}

// Options configures a session on a terminal.
type Options struct {
	// In and Out default to /dev/tty so content can arrive on stdin.
	In  io.Reader
	Out io.Writer
	// Width and Height override the detected terminal size.
	Width, Height int
	// Keys defaults to input.DefaultKeyMap.
	Keys input.KeyMap
	// Engine options (pace, recorders, scheduler).
	Engine []engine.Option
}

// Play runs content until the user closes the session or ctx ends. The
// program owns the terminal: raw mode, the alternate screen and mouse
// reporting are all undone before Play returns.
func Play(ctx context.Context, content string, opts Options) error {
	in, out := opts.In, opts.Out
	if in == nil || out == nil {
		tty, err := openTerminal()
		switch {
		case err == nil:
			defer tty.Close()
		case runtime.GOOS != "windows":
			return fmt.Errorf("open terminal: %w", err)
		}
		if in == nil {
			in = os.Stdin
			if tty != nil {
				in = tty
			}
		}
		if out == nil {
			out = os.Stdout
			if tty != nil {
				out = tty
			}
		}
	}

	reader := input.NewReader(in, input.DefaultEscapeDelay)
	defer reader.Close()

	m := newModel(opts)
	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(reader),
		tea.WithOutput(out),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	engineOpts := append([]engine.Option{
		engine.WithListener(func(s playback.Snapshot) { program.Send(snapshotMsg(s)) }),
	}, opts.Engine...)
	m.engine = engine.New(content, engineOpts...)
	m.snap = m.engine.Snapshot()
	m.renderer = NewRenderer(NewStyles(lipgloss.NewRenderer(out)), m.engine.Player().Tokens(), m.width, m.height)

	reader.OnEnd = func(err error) {
		if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
			slog.Warn("input read failed", "error", err)
		}
		program.Send(inputEndedMsg{})
	}

	engineDone := make(chan error, 1)
	go func() {
		err := m.engine.Run(ctx)
		_ = reader.Close()
		program.Send(sessionClosedMsg{})
		engineDone <- err
	}()

	_, runErr := program.Run()
	m.engine.Stop()
	engineErr := <-engineDone

	if runErr != nil && !(errors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return fmt.Errorf("terminal: %w", runErr)
	}
	if errors.Is(engineErr, context.Canceled) {
		return nil
	}
	return engineErr
}

// snapshotMsg carries engine state into the program.
type snapshotMsg playback.Snapshot

// inputEndedMsg reports that the terminal input is exhausted.
type inputEndedMsg struct{}

// sessionClosedMsg reports that the engine finished.
type sessionClosedMsg struct{}

// model is the program's view of one session. Keys and clicks become
// engine commands; the engine answers with snapshots.
type model struct {
	engine   *engine.Engine
	keys     input.KeyMap
	renderer *Renderer
	snap     playback.Snapshot
	frame    *Frame
	width    int
	height   int
	fixed    bool
}

func newModel(opts Options) *model {
	m := &model{keys: opts.Keys, width: defaultWidth, height: defaultHeight}
	if m.keys == nil {
		m.keys = input.DefaultKeyMap()
	}
	if opts.Width > 0 && opts.Height > 0 {
		m.width, m.height, m.fixed = opts.Width, opts.Height, true
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		for _, name := range input.Names(msg) {
			if cmd, ok := m.keys.Lookup(name); ok {
				m.engine.Enqueue(cmd)
			}
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			break
		}
		// Hit-test against the frame that is on screen.
		if token, ok := m.frame.TokenAt(msg.X, msg.Y); ok {
			m.engine.Enqueue(playback.Jump(token))
		}

	case tea.WindowSizeMsg:
		if !m.fixed {
			m.width, m.height = msg.Width, msg.Height
			m.renderer.Resize(msg.Width, msg.Height)
		}

	case snapshotMsg:
		m.snap = playback.Snapshot(msg)

	case inputEndedMsg:
		m.engine.Enqueue(playback.Cmd(playback.CommandClose))

	case sessionClosedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) View() string {
	screen, frame := m.renderer.Render(m.snap)
	m.frame = frame
	return screen
}
