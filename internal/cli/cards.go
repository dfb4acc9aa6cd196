package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/roach88/teleprompt/internal/deck"
	"github.com/roach88/teleprompt/internal/text"
)

// CardsOptions holds flags for the cards command.
type CardsOptions struct {
	*RootOptions
	Full bool // print whole content instead of previews
}

// CardInfo is one card in the listing.
type CardInfo struct {
	ID        string `json:"id"`
	Chars     int    `json:"chars"`
	Words     int    `json:"words"`
	Preview   string `json:"preview"`
	Truncated bool   `json:"truncated"`
}

// CardsResult holds the card listing, newest first.
type CardsResult struct {
	Cards []CardInfo `json:"cards"`
	Total int        `json:"total"`
}

// NewCardsCommand creates the cards command.
func NewCardsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CardsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cards [deck.yaml | file.txt...]",
		Short: "List saved cards",
		Long: `List the cards of a deck, newest first, with a preview of each.

A deck is a YAML file with a "cards" list, oldest first. Plain text files
can be listed instead, one card per file, named after the file.

Examples:
  teleprompt cards cards.yaml
  teleprompt cards intro.txt outro.txt
  teleprompt cards --deck cards.yaml --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCards(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Full, "full", false, "print whole card content")

	cmd.AddCommand(newCardsAddCommand(rootOpts))
	cmd.AddCommand(newCardsRemoveCommand(rootOpts))

	return cmd
}

func runCards(opts *CardsOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	paths := args
	if len(paths) == 0 {
		if opts.Config.Deck.Path == "" {
			return commandError(formatter, NewExitError(ExitCommandError, "no deck: pass a deck file or set --deck"))
		}
		paths = []string{opts.Config.Deck.Path}
	}

	d, err := loadDeck(paths)
	if err != nil {
		return commandError(formatter, err)
	}

	result := listCards(d, opts.Full)
	return formatter.Emit(result, func(w io.Writer) {
		writeCardsText(w, result)
	})
}

// listCards summarizes d, newest card first.
func listCards(d *deck.Deck, full bool) CardsResult {
	result := CardsResult{Cards: []CardInfo{}}
	for _, card := range d.List() {
		info := CardInfo{
			ID:        card.ID,
			Chars:     card.Chars(),
			Words:     text.CountWords(card.Content),
			Preview:   card.Preview(),
			Truncated: card.Truncated(),
		}
		if full {
			info.Preview = card.Content
			info.Truncated = false
		}
		result.Cards = append(result.Cards, info)
	}
	result.Total = len(result.Cards)
	return result
}

func writeCardsText(w io.Writer, r CardsResult) {
	if r.Total == 0 {
		fmt.Fprintln(w, "No cards.")
		return
	}

	renderer := lipgloss.NewRenderer(w)
	idStyle := renderer.NewStyle().Bold(true)
	metaStyle := renderer.NewStyle().Faint(true)
	bodyStyle := renderer.NewStyle().PaddingLeft(2).Width(78)

	for i, card := range r.Cards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n",
			idStyle.Render(card.ID),
			metaStyle.Render(fmt.Sprintf("(%d chars, %d words)", card.Chars, card.Words)))
		fmt.Fprintln(w, bodyStyle.Render(card.Preview))
	}
}
