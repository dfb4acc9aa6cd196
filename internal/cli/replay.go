package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/teleprompt/internal/engine"
	"github.com/roach88/teleprompt/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Session string // optional - specific session only
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	SessionID     string `json:"session_id"`
	Events        int    `json:"events"`
	Commands      int    `json:"commands"`
	Ticks         int    `json:"ticks"`
	IsClosed      bool   `json:"is_closed"`
	Deterministic bool   `json:"deterministic"`
	Digest        string `json:"digest,omitempty"`
	Divergence    string `json:"divergence,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded sessions and verify them",
		Long: `Re-run the commands of recorded sessions against a fresh session on a
simulated clock and check that every step reproduces the recorded state.

Exit codes:
  0 - All sessions replayed identically
  1 - A session diverged from its recording
  2 - Command error (database not found, etc.)

Examples:
  teleprompt replay --trace sessions.db
  teleprompt replay --trace sessions.db --session 0193...
  teleprompt replay --trace sessions.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openTraceStore(opts.RootOptions)
	if err != nil {
		return commandError(formatter, err)
	}
	defer st.Close()

	var ids []string
	if opts.Session != "" {
		ids = []string{opts.Session}
	} else {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return commandError(formatter, WrapExitError(ExitCommandError, "failed to list sessions", err))
		}
		for _, s := range sessions {
			ids = append(ids, s.ID)
		}
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(ids)),
		TotalSessions:    len(ids),
		AllDeterministic: true,
	}

	for _, id := range ids {
		formatter.VerboseLog("replaying session %s", id)
		sessionResult, err := replaySession(ctx, st, id)
		if err != nil {
			return commandError(formatter, WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", id), err))
		}
		if !sessionResult.Deterministic {
			result.AllDeterministic = false
		}
		result.Sessions = append(result.Sessions, sessionResult)
	}

	text := func(w io.Writer) { writeReplayText(w, result) }
	if !result.AllDeterministic {
		return formatter.Fail(ExitFailure, ErrCodeDiverged, "replay diverged from the recording", result, text)
	}
	return formatter.Emit(result, text)
}

// replaySession replays one session. A divergence is part of the result;
// only storage and malformed-trace failures are returned as errors.
func replaySession(ctx context.Context, st *store.Store, id string) (ReplaySessionResult, error) {
	sess, err := st.ReadSession(ctx, id)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	events, err := st.ReadEvents(ctx, id)
	if err != nil {
		return ReplaySessionResult{}, err
	}

	stats := traceStats(events)
	result := ReplaySessionResult{
		SessionID: id,
		Events:    stats.TotalEvents,
		Commands:  stats.Commands,
		Ticks:     stats.Ticks,
		IsClosed:  stats.IsClosed,
	}

	replayed, err := engine.Replay(ctx, sess, events)
	if err != nil {
		if !engine.IsDivergence(err) {
			return ReplaySessionResult{}, err
		}
		var rtErr *engine.RuntimeError
		errors.As(err, &rtErr)
		result.Divergence = describeDivergence(rtErr)
		return result, nil
	}

	result.Deterministic = true
	result.Digest = replayed.Digest
	return result, nil
}

func describeDivergence(e *engine.RuntimeError) string {
	if e.Want == nil || e.Got == nil {
		return e.Error()
	}
	return fmt.Sprintf("seq %d (%s): recorded position=%d %s wpm=%d, replayed position=%d %s wpm=%d",
		e.Seq, eventLabel(*e.Want),
		e.Want.Position, e.Want.State, e.Want.WPM,
		e.Got.Position, e.Got.State, e.Got.WPM)
}

func writeReplayText(w io.Writer, r ReplayResult) {
	if r.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return
	}
	for _, s := range r.Sessions {
		if s.Deterministic {
			fmt.Fprintf(w, "✓ %s (%d events: %d commands, %d ticks)\n", s.SessionID, s.Events, s.Commands, s.Ticks)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n  %s\n", s.SessionID, s.Divergence)
	}
	fmt.Fprintln(w)
	if r.AllDeterministic {
		fmt.Fprintf(w, "All %d session(s) replayed identically\n", r.TotalSessions)
	} else {
		fmt.Fprintln(w, "Replay diverged")
	}
}
