package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/teleprompt/internal/config"
	"github.com/roach88/teleprompt/internal/engine"
	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/store"
	"github.com/roach88/teleprompt/internal/testutil"
	"github.com/roach88/teleprompt/internal/trace"
)

// executeRoot runs the full command tree with args and returns stdout.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func testRootOptions(format string) *RootOptions {
	return &RootOptions{Format: format, Config: config.DefaultConfig()}
}

// recordSession writes a short played session to a new trace database:
// toggle, two ticks (the second ends playback), close.
func recordSession(t *testing.T, id string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.db")
	appendSession(t, path, id)
	return path
}

func appendSession(t *testing.T, path, id string) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	sched := testutil.NewManualScheduler()
	e := engine.New("Hello world",
		engine.WithScheduler(sched),
		engine.WithRecorder(st),
		engine.WithIDGenerator(testutil.NewFixedIDGenerator(id)),
	)
	require.NoError(t, e.Open(ctx))
	require.NoError(t, e.Apply(ctx, playback.Cmd(playback.CommandTogglePlay)))
	sched.Advance(time.Second)
	e.Close(ctx)
}

// writeDivergentSession records a session whose tick claims a position
// the content cannot produce.
func writeDivergentSession(t *testing.T, path, id string) {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.WriteSession(ctx, trace.Session{
		ID:          id,
		Content:     "Hello world",
		ContentHash: trace.ContentHash("Hello world"),
		WPM:         120,
		Step:        10,
	}))
	events := []trace.Event{
		{SessionID: id, Seq: 1, Kind: trace.KindOpen, Position: -1, State: "paused", WPM: 120},
		{SessionID: id, Seq: 2, Kind: trace.KindCommand, Command: "toggle", Position: 0, State: "playing", WPM: 120, ProgressBP: 5000},
		{SessionID: id, Seq: 3, Kind: trace.KindTick, Position: 0, State: "playing", WPM: 120, ProgressBP: 5000},
	}
	for _, ev := range events {
		require.NoError(t, st.WriteEvent(ctx, ev))
	}
}
