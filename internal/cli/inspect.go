package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/teleprompt/internal/playback"
	"github.com/roach88/teleprompt/internal/text"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	File string
	Card string
}

// TokenInfo describes one token.
type TokenInfo struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Rank  int    `json:"rank"` // word rank, -1 for whitespace
}

// InspectResult holds the tokenization and timing of some content.
type InspectResult struct {
	Source     string      `json:"source"`
	Tokens     []TokenInfo `json:"tokens"`
	Words      []int       `json:"words"`
	WPM        int         `json:"wpm"`
	IntervalMs int64       `json:"interval_ms"`
	DurationMs int64       `json:"duration_ms"` // full playback at WPM
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how content is tokenized and timed",
		Long: `Show the tokens, the word index and the per-word interval for some
content, without starting a session.

Examples:
  teleprompt inspect --file speech.txt
  teleprompt inspect --deck cards.yaml --card intro --wpm 200
  echo "Hello world" | teleprompt inspect --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "text file to inspect")
	cmd.Flags().StringVar(&opts.Card, "card", "", "id of a card in the deck to inspect")

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	content, source, err := ContentSource{
		File:  opts.File,
		Card:  opts.Card,
		Deck:  opts.Config.Deck.Path,
		Stdin: cmd.InOrStdin(),
	}.Load()
	if err != nil {
		return commandError(formatter, err)
	}

	result := Inspect(content, opts.Config.Playback.WPM)
	result.Source = source

	return formatter.Emit(result, func(w io.Writer) {
		writeInspectText(w, result)
	})
}

// Inspect tokenizes content and computes its timing at wpm (clamped).
func Inspect(content string, wpm int) InspectResult {
	tokens := text.Tokenize(content)
	index := text.NewWordIndex(tokens)
	pace := playback.NewPace(wpm)

	infos := make([]TokenInfo, len(tokens))
	for i, tok := range tokens {
		infos[i] = TokenInfo{
			Index: i,
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Rank:  index.PositionOf(i),
		}
	}

	return InspectResult{
		Tokens:     infos,
		Words:      index.Words(),
		WPM:        pace.WPM(),
		IntervalMs: pace.IntervalMs(),
		DurationMs: pace.IntervalMs() * int64(index.Total()),
	}
}

func writeInspectText(w io.Writer, r InspectResult) {
	fmt.Fprintf(w, "Source:   %s\n", r.Source)
	fmt.Fprintf(w, "Words:    %d (%d tokens)\n", len(r.Words), len(r.Tokens))
	fmt.Fprintf(w, "Pace:     %d wpm, %d ms per word\n", r.WPM, r.IntervalMs)
	fmt.Fprintf(w, "Duration: %s\n", time.Duration(r.DurationMs)*time.Millisecond)

	if len(r.Tokens) == 0 {
		return
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tRANK\tKIND\tTEXT")
	for _, tok := range r.Tokens {
		rank := "-"
		if tok.Rank >= 0 {
			rank = strconv.Itoa(tok.Rank)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", tok.Index, rank, tok.Kind, strconv.Quote(tok.Text))
	}
	tw.Flush()
}
