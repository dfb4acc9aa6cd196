package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/roach88/teleprompt/internal/engine"
	"github.com/roach88/teleprompt/internal/input"
	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/store"
	"github.com/roach88/teleprompt/internal/text"
	"github.com/roach88/teleprompt/internal/tui"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	File string
	Card string

	// Terminal overrides for tests. Nil means the controlling terminal.
	In            io.Reader
	Out           io.Writer
	Width, Height int
}

// PlayResult summarizes a finished session.
type PlayResult struct {
	SessionID string `json:"session_id"`
	Source    string `json:"source"`
	Words     int    `json:"words"`
	Reached   int    `json:"reached"` // words shown, by rank of the last position
	WPM       int    `json:"wpm"`
	Recorded  bool   `json:"recorded"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play text in the terminal",
		Long: `Play text one word at a time.

Keys:
  space      play / pause
  left/right previous / next word
  up/down    faster / slower
  r          back to the start
  click      jump to a word
  esc, q     close

Bindings can be changed in the config file under "keys".

Examples:
  teleprompt play --file speech.txt
  teleprompt play --deck cards.yaml --card intro --wpm 160
  pbpaste | teleprompt play --trace sessions.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "text file to play")
	cmd.Flags().StringVar(&opts.Card, "card", "", "id of a card in the deck to play")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	cfg := opts.Config

	content, source, err := ContentSource{
		File:  opts.File,
		Card:  opts.Card,
		Deck:  cfg.Deck.Path,
		Stdin: cmd.InOrStdin(),
	}.Load()
	if err != nil {
		return commandError(formatter, err)
	}

	keys, err := input.DefaultKeyMap().WithOverrides(cfg.Keys)
	if err != nil {
		return commandError(formatter, WrapExitError(ExitCommandError, "invalid key bindings", err))
	}

	sessionID := engine.UUIDv7Generator{}.Generate()
	last := playback.Snapshot{Position: text.None}
	engineOpts := []engine.Option{
		engine.WithPace(cfg.Playback.WPM),
		engine.WithStep(cfg.Playback.Step),
		engine.WithIDGenerator(engine.NewFixedGenerator(sessionID)),
		engine.WithListener(func(s playback.Snapshot) { last = s }),
	}

	if cfg.Trace.DB != "" {
		st, err := store.Open(cfg.Trace.DB)
		if err != nil {
			return commandError(formatter, WrapExitError(ExitCommandError, "failed to open trace database", err))
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing trace database", "error", closeErr)
			}
		}()
		engineOpts = append(engineOpts, engine.WithRecorder(st))
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	restoreLogs := quietLogs(opts.RootOptions, cmd.ErrOrStderr())
	err = tui.Play(ctx, content, tui.Options{
		In:     opts.In,
		Out:    opts.Out,
		Width:  opts.Width,
		Height: opts.Height,
		Keys:   keys,
		Engine: engineOpts,
	})
	restoreLogs()
	if err != nil {
		return commandError(formatter, WrapExitError(ExitFailure, "session failed", err))
	}

	index := text.NewWordIndex(text.Tokenize(content))
	result := PlayResult{
		SessionID: sessionID,
		Source:    source,
		Words:     index.Total(),
		Reached:   index.PositionOf(last.Position) + 1,
		WPM:       last.WPM,
		Recorded:  cfg.Trace.DB != "",
	}
	if result.WPM == 0 {
		result.WPM = playback.ClampWPM(cfg.Playback.WPM)
	}

	return formatter.Emit(result, func(w io.Writer) {
		fmt.Fprintf(w, "Played %s: %d/%d words at %d wpm\n", result.Source, result.Reached, result.Words, result.WPM)
		if result.Recorded {
			fmt.Fprintf(w, "Session %s recorded in %s\n", result.SessionID, cfg.Trace.DB)
		}
	})
}

// quietLogs raises the log level to Warn while the player owns a terminal
// that stderr also writes to, unless --verbose was given. It returns a
// function restoring the previous logger.
func quietLogs(opts *RootOptions, errW io.Writer) func() {
	f, ok := errW.(*os.File)
	if opts.Verbose || !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(errW, &slog.HandlerOptions{Level: slog.LevelWarn})))
	return func() { slog.SetDefault(prev) }
}
