package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/trace"
)

func recordSession(t *testing.T) (trace.Session, []trace.Event) {
	t.Helper()
	e, sched, rec := newTestEngine(t, "the quick brown fox", WithPace(60))
	ctx := context.Background()

	require.NoError(t, e.Apply(ctx, playback.Cmd(playback.CommandTogglePlay)))
	sched.Advance(time.Second)
	require.NoError(t, e.Apply(ctx, playback.Cmd(playback.CommandPaceUp)))
	sched.Advance(time.Second)
	require.NoError(t, e.Apply(ctx, playback.Cmd(playback.CommandStepBack)))
	require.NoError(t, e.Apply(ctx, playback.Jump(6)))
	require.NoError(t, e.Apply(ctx, playback.Cmd(playback.CommandTogglePlay)))
	sched.Advance(10 * time.Second)
	require.NoError(t, e.Apply(ctx, playback.Cmd(playback.CommandClose)))

	return rec.Session(), rec.Events()
}

func TestReplay_ReproducesTrace(t *testing.T) {
	sess, recorded := recordSession(t)

	result, err := Replay(context.Background(), sess, recorded)
	require.NoError(t, err)

	assert.Equal(t, recorded, result.Events)
	assert.Equal(t, trace.KindClose, result.Final.Kind)

	want, err := trace.Digest(recorded)
	require.NoError(t, err)
	assert.Equal(t, want, result.Digest)
}

func TestReplay_DetectsTamperedState(t *testing.T) {
	sess, recorded := recordSession(t)
	recorded[2].Position = 4

	_, err := Replay(context.Background(), sess, recorded)
	require.Error(t, err)
	assert.True(t, IsDivergence(err))

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, int64(3), re.Seq)
	require.NotNil(t, re.Got)
	assert.Equal(t, 2, re.Got.Position)
}

func TestReplay_TickWithoutTimerDiverges(t *testing.T) {
	sess := trace.Session{ID: "s", Content: "a b", WPM: 120, Step: 10}
	recorded := []trace.Event{
		{SessionID: "s", Seq: 1, Kind: trace.KindOpen, Position: -1, State: "paused", WPM: 120},
		{SessionID: "s", Seq: 2, Kind: trace.KindTick, Position: 0, State: "playing", WPM: 120, ProgressBP: 5000},
	}

	_, err := Replay(context.Background(), sess, recorded)
	assert.True(t, IsDivergence(err))
}

func TestReplay_UnknownCommand(t *testing.T) {
	sess := trace.Session{ID: "s", Content: "a", WPM: 120, Step: 10}
	recorded := []trace.Event{
		{SessionID: "s", Seq: 1, Kind: trace.KindOpen, Position: -1, State: "paused", WPM: 120},
		{SessionID: "s", Seq: 2, Kind: trace.KindCommand, Command: "warp"},
	}

	_, err := Replay(context.Background(), sess, recorded)

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeUnknownCommand, re.Code)
	assert.False(t, IsDivergence(err))
}

func TestReplay_UnknownEventKind(t *testing.T) {
	sess := trace.Session{ID: "s", Content: "a", WPM: 120, Step: 10}

	_, err := Replay(context.Background(), sess, []trace.Event{{Seq: 1, Kind: "bogus"}})

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeUnknownEvent, re.Code)
}

func TestRuntimeError_Message(t *testing.T) {
	err := NewDivergenceError("s-1", trace.Event{Seq: 4, Kind: trace.KindTick}, nil)
	assert.Equal(t, "DIVERGED: replay produced no event for recorded tick (session=s-1, seq=4)", err.Error())

	err = NewUnknownCommandError("", playback.Jump(3))
	assert.Equal(t, "UNKNOWN_COMMAND: unknown command jump(3)", err.Error())
}
