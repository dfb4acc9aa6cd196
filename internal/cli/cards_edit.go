package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/teleprompt/internal/deck"
)

// CardEditResult is a deck after one card was added or removed.
type CardEditResult struct {
	Action string      `json:"action"` // "added" or "removed"
	ID     string      `json:"id"`
	Deck   CardsResult `json:"deck"`
}

func newCardsAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <content>",
		Short: "Add a card and print the resulting deck",
		Long: `Add a card to the front of the deck and print the resulting deck as YAML.

Content is trimmed and must not be blank. Without --deck the card starts a
new deck. The deck file itself is left untouched; redirect the output to
keep the result.

Examples:
  teleprompt cards add --deck cards.yaml "Thank you all for coming."
  teleprompt cards add --deck cards.yaml "$(cat outro.txt)" > cards.new.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardsEdit(rootOpts, cmd, "added", func(d *deck.Deck) (string, error) {
				card, err := d.Add(args[0])
				if err != nil {
					return "", WrapExitError(ExitCommandError, "cannot add card", err)
				}
				return card.ID, nil
			})
		},
	}
}

func newCardsRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove a card and print the resulting deck",
		Long: `Remove the card with the given id and print the resulting deck as YAML.

The deck file itself is left untouched; redirect the output to keep the
result.

Examples:
  teleprompt cards rm --deck cards.yaml intro`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCardsEdit(rootOpts, cmd, "removed", func(d *deck.Deck) (string, error) {
				if err := d.Delete(args[0]); err != nil {
					return "", WrapExitError(ExitCommandError, "cannot remove card", err)
				}
				return args[0], nil
			})
		},
	}
}

// runCardsEdit loads the configured deck, applies edit and prints the
// result: YAML in text mode, a listing in JSON mode. Only an add may start
// from an empty deck.
func runCardsEdit(opts *RootOptions, cmd *cobra.Command, action string, edit func(*deck.Deck) (string, error)) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	d := deck.New()
	if path := opts.Config.Deck.Path; path != "" {
		loaded, err := loadDeck([]string{path})
		if err != nil {
			return commandError(formatter, err)
		}
		d = loaded
	} else if action != "added" {
		return commandError(formatter, NewExitError(ExitCommandError, "no deck: set --deck"))
	}

	id, err := edit(d)
	if err != nil {
		return commandError(formatter, err)
	}

	result := CardEditResult{Action: action, ID: id, Deck: listCards(d, true)}

	data, err := yaml.Marshal(d)
	if err != nil {
		return commandError(formatter, WrapExitError(ExitFailure, "failed to encode deck", err))
	}
	return formatter.Emit(result, func(w io.Writer) {
		fmt.Fprintf(w, "# %s card %s\n", result.Action, result.ID)
		_, _ = w.Write(data)
	})
}
