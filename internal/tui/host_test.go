package tui

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/teleprompt/internal/engine"
	"github.com/roach88/teleprompt/internal/testutil"
	"github.com/roach88/teleprompt/internal/trace"
)

// splitReader returns one chunk per Read, the way a terminal hands over
// bytes as they arrive.
type splitReader struct {
	chunks []string
}

func (s *splitReader) Read(p []byte) (int, error) {
	if len(s.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.chunks[0])
	s.chunks = s.chunks[1:]
	return n, nil
}

func playScripted(t *testing.T, content, keys string) (*engine.MemoryRecorder, string) {
	t.Helper()
	return playFrom(t, content, strings.NewReader(keys))
}

func playFrom(t *testing.T, content string, in io.Reader) (*engine.MemoryRecorder, string) {
	t.Helper()
	var out bytes.Buffer
	rec := engine.NewMemoryRecorder()

	err := Play(context.Background(), content, Options{
		In:     in,
		Out:    &out,
		Width:  40,
		Height: 8,
		Engine: []engine.Option{
			engine.WithScheduler(testutil.NewManualScheduler()),
			engine.WithRecorder(rec),
			engine.WithIDGenerator(engine.NewFixedGenerator("host-test")),
		},
	})
	require.NoError(t, err)
	return rec, out.String()
}

func TestPlay_KeysAndClickDriveSession(t *testing.T) {
	// "gamma" starts at layout column 11, screen column 11 + marginX.
	// SGR mouse reports are 1-based.
	keys := " " + "\x1b[C" + "\x1b[<0;14;1M" + "q"

	rec, screen := playScripted(t, "alpha beta gamma", keys)

	events := rec.Events()
	require.Len(t, events, 5)
	assert.Equal(t, trace.KindOpen, events[0].Kind)
	assert.Equal(t, "toggle", events[1].Command)
	assert.Equal(t, "step_forward", events[2].Command)
	assert.Equal(t, 2, events[2].Position)
	assert.Equal(t, "jump", events[3].Command)
	assert.Equal(t, 4, events[3].Arg)
	assert.Equal(t, "paused", events[3].State)
	assert.Equal(t, trace.KindClose, events[4].Kind)

	enter := strings.Index(screen, "\x1b[?1049h")
	leave := strings.LastIndex(screen, "\x1b[?1049l")
	require.GreaterOrEqual(t, enter, 0, "alternate screen")
	assert.Greater(t, leave, enter, "terminal is restored on exit")
	assert.Contains(t, screen, "alpha beta gamma")
}

func TestPlay_EscapeSequenceSplitAcrossReads(t *testing.T) {
	in := &splitReader{chunks: []string{" ", "\x1b", "[C", "q"}}

	rec, _ := playFrom(t, "alpha beta gamma", in)

	events := rec.Events()
	require.Len(t, events, 4)
	assert.Equal(t, "toggle", events[1].Command)
	assert.Equal(t, "step_forward", events[2].Command, "not esc followed by [ and C")
	assert.Equal(t, 2, events[2].Position)
	assert.Equal(t, trace.KindClose, events[3].Kind)
}

func TestPlay_CancelledContextClosesSession(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	closed := false
	err := Play(ctx, "a b", Options{
		In:     pr,
		Out:    &out,
		Width:  40,
		Height: 8,
		Engine: []engine.Option{
			engine.WithScheduler(testutil.NewManualScheduler()),
			engine.WithOnClose(func() { closed = true }),
		},
	})
	require.NoError(t, err)
	assert.True(t, closed, "session is torn down")
}

func TestPlay_EndOfInputCloses(t *testing.T) {
	rec, _ := playScripted(t, "a b", "r")

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "reset", events[1].Command)
	assert.Equal(t, trace.KindClose, events[2].Kind)
}

func TestPlay_ClickOnWhitespaceIsIgnoredByPlayer(t *testing.T) {
	// Column 5 is the space between "alpha" and "beta".
	rec, _ := playScripted(t, "alpha beta", "\x1b[<0;8;1M\x1b")

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "jump", events[1].Command)
	assert.Equal(t, -1, events[1].Position, "whitespace jumps are rejected")
}

func TestPlay_TerminalClosedOnExit(t *testing.T) {
	tests := map[string]func() (context.Context, string){
		"closed by key": func() (context.Context, string) {
			return context.Background(), "q"
		},
		"cancelled": func() (context.Context, string) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, ""
		},
	}

	for name, setup := range tests {
		t.Run(name, func(t *testing.T) {
			r, w, err := os.Pipe()
			require.NoError(t, err)
			defer w.Close()

			prev := openTerminal
			openTerminal = func() (*os.File, error) { return r, nil }
			defer func() { openTerminal = prev }()

			ctx, keys := setup()
			_, err = w.WriteString(keys)
			require.NoError(t, err)

			err = Play(ctx, "a b", Options{
				Out:    io.Discard,
				Width:  40,
				Height: 8,
				Engine: []engine.Option{engine.WithScheduler(testutil.NewManualScheduler())},
			})
			require.NoError(t, err)

			_, err = r.Read(make([]byte, 1))
			assert.ErrorIs(t, err, os.ErrClosed, "terminal handle is closed")
		})
	}
}
