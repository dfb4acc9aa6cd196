package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/teleprompt/internal/store"
	"github.com/roach88/teleprompt/internal/text"
	"github.com/roach88/teleprompt/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Session string // defaults to the latest session
	Kind    string // optional - filter to one event kind
	List    bool
}

// TraceSession describes the session header in trace output.
type TraceSession struct {
	ID          string `json:"id"`
	ContentHash string `json:"content_hash"`
	WPM         int    `json:"wpm"`
	Step        int    `json:"step"`
	Words       int    `json:"words"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Session  TraceSession  `json:"session"`
	Timeline []trace.Event `json:"timeline"`
	Stats    TraceStats    `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalEvents int  `json:"total_events"`
	Commands    int  `json:"commands"`
	Ticks       int  `json:"ticks"`
	IsClosed    bool `json:"is_closed"`
}

// SessionList holds the output of trace --list.
type SessionList struct {
	Sessions []store.SessionSummary `json:"sessions"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show a recorded session",
		Long: `Show the timeline of a session recorded with play --trace.

Every processed command and timer tick is listed with its sequence
number and the state it produced.

Examples:
  teleprompt trace --trace sessions.db
  teleprompt trace --trace sessions.db --list
  teleprompt trace --trace sessions.db --session 0193... --kind tick
  teleprompt trace --trace sessions.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (default: latest)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to one event kind (open, command, tick, close)")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list recorded sessions")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openTraceStore(opts.RootOptions)
	if err != nil {
		return commandError(formatter, err)
	}
	defer st.Close()

	if opts.List {
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return commandError(formatter, WrapExitError(ExitCommandError, "failed to list sessions", err))
		}
		return formatter.Emit(SessionList{Sessions: sessions}, func(w io.Writer) {
			writeSessionList(w, sessions)
		})
	}

	id, err := resolveSession(ctx, st, opts.Session)
	if err != nil {
		return commandError(formatter, err)
	}

	sess, err := st.ReadSession(ctx, id)
	if err != nil {
		return commandError(formatter, WrapExitError(ExitCommandError, "failed to read session", err))
	}
	events, err := st.ReadEvents(ctx, id)
	if err != nil {
		return commandError(formatter, WrapExitError(ExitCommandError, "failed to read events", err))
	}

	result := TraceResult{
		Session: TraceSession{
			ID:          sess.ID,
			ContentHash: sess.ContentHash,
			WPM:         sess.WPM,
			Step:        sess.Step,
			Words:       text.CountWords(sess.Content),
		},
		Timeline: filterEvents(events, opts.Kind),
		Stats:    traceStats(events),
	}

	return formatter.Emit(result, func(w io.Writer) {
		writeTraceText(w, result)
	})
}

// openTraceStore opens the database named by --trace / trace.db.
func openTraceStore(opts *RootOptions) (*store.Store, error) {
	path := opts.Config.Trace.DB
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no trace database: set --trace or trace.db")
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// resolveSession returns id, or the latest session when id is empty.
func resolveSession(ctx context.Context, st *store.Store, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	latest, err := st.LatestSessionID(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "", WrapExitError(ExitCommandError, "no sessions recorded", err)
	}
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to find latest session", err)
	}
	return latest, nil
}

func filterEvents(events []trace.Event, kind string) []trace.Event {
	if kind == "" {
		return events
	}
	filtered := []trace.Event{}
	for _, ev := range events {
		if string(ev.Kind) == kind {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

func traceStats(events []trace.Event) TraceStats {
	stats := TraceStats{TotalEvents: len(events)}
	for _, ev := range events {
		switch ev.Kind {
		case trace.KindCommand:
			stats.Commands++
		case trace.KindTick:
			stats.Ticks++
		case trace.KindClose:
			stats.IsClosed = true
		}
	}
	return stats
}

func writeTraceText(w io.Writer, r TraceResult) {
	fmt.Fprintf(w, "Session: %s\n", r.Session.ID)
	fmt.Fprintf(w, "Content: %d words, %s\n", r.Session.Words, shortHash(r.Session.ContentHash))
	fmt.Fprintf(w, "Pace:    %d wpm (step %d)\n", r.Session.WPM, r.Session.Step)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tEVENT\tPOSITION\tSTATE\tWPM\tPROGRESS")
	for _, ev := range r.Timeline {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\n",
			ev.Seq, eventLabel(ev), ev.Position, ev.State, ev.WPM, formatBP(ev.ProgressBP))
	}
	tw.Flush()

	fmt.Fprintln(w)
	status := "open"
	if r.Stats.IsClosed {
		status = "closed"
	}
	fmt.Fprintf(w, "%d events: %d commands, %d ticks, %s\n",
		r.Stats.TotalEvents, r.Stats.Commands, r.Stats.Ticks, status)
}

func writeSessionList(w io.Writer, sessions []store.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tWORDS\tWPM\tEVENTS\tCOMMANDS\tTICKS\tCONTENT")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			s.ID, s.Words, s.WPM, s.Events, s.Commands, s.Ticks, shortHash(s.ContentHash))
	}
	tw.Flush()
}

// eventLabel names an event: the command (with its argument) or the kind.
func eventLabel(ev trace.Event) string {
	if ev.Kind != trace.KindCommand {
		return string(ev.Kind)
	}
	if ev.HasArg() {
		return ev.Command + " " + strconv.Itoa(ev.Arg)
	}
	return ev.Command
}

func formatBP(bp int) string {
	return fmt.Sprintf("%d.%02d%%", bp/100, bp%100)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
