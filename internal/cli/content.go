package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/roach88/teleprompt/internal/deck"
)

// ContentSource selects the text to play: a file, a card from a deck, or
// whatever arrives on stdin, in that order of preference.
type ContentSource struct {
	File string
	Card string
	Deck string
	// Stdin is read when neither File nor Card is set.
	Stdin io.Reader
}

// errNoContent is returned when stdin is an interactive terminal and no
// file or card was named.
var errNoContent = errors.New("no content: use --file, --card with --deck, or pipe text on stdin")

// Load returns the content and a label naming where it came from.
func (s ContentSource) Load() (content, label string, err error) {
	switch {
	case s.File != "":
		data, err := os.ReadFile(s.File)
		if err != nil {
			return "", "", WrapExitError(ExitCommandError, "failed to read content file", err)
		}
		return string(data), s.File, nil

	case s.Card != "":
		if s.Deck == "" {
			return "", "", NewExitError(ExitCommandError, "--card requires --deck (or deck.path in config)")
		}
		d, err := loadDeck([]string{s.Deck})
		if err != nil {
			return "", "", err
		}
		card, err := d.Get(s.Card)
		if err != nil {
			return "", "", WrapExitError(ExitCommandError, fmt.Sprintf("card %q in %s", s.Card, s.Deck), err)
		}
		return card.Content, "card " + card.ID, nil

	default:
		if s.Stdin == nil {
			return "", "", NewExitError(ExitCommandError, errNoContent.Error())
		}
		if f, ok := s.Stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "", "", NewExitError(ExitCommandError, errNoContent.Error())
		}
		data, err := io.ReadAll(s.Stdin)
		if err != nil {
			return "", "", WrapExitError(ExitCommandError, "failed to read stdin", err)
		}
		return string(data), "stdin", nil
	}
}

// loadDeck reads a YAML deck, or builds one from plain text files (one
// card per .txt file).
func loadDeck(paths []string) (*deck.Deck, error) {
	if len(paths) == 1 && !isTextFile(paths[0]) {
		d, err := deck.Load(paths[0])
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load deck", err)
		}
		return d, nil
	}
	for _, p := range paths {
		if !isTextFile(p) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("cannot mix deck files and text files: %s", p))
		}
	}
	d, err := deck.LoadText(paths)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load cards", err)
	}
	return d, nil
}

func isTextFile(path string) bool {
	switch filepath.Ext(path) {
	case ".txt", ".md", ".text":
		return true
	}
	return false
}

// errorCode maps content and deck errors to an output error code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, deck.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, deck.ErrEmpty), errors.Is(err, deck.ErrDuplicateID):
		return ErrCodeDeck
	default:
		return ErrCodeGeneric
	}
}

// commandError reports err in JSON mode and returns it as an ExitError.
// In text mode main prints the error, so nothing is written here.
func commandError(f *OutputFormatter, err error) error {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		exitErr = WrapExitError(ExitCommandError, "command failed", err)
	}
	if f.Format == "json" {
		if writeErr := f.Error(errorCode(err), exitErr.Error(), nil); writeErr != nil {
			return writeErr
		}
	}
	return exitErr
}

func newFormatter(opts *RootOptions, w, errW io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    w,
		ErrWriter: errW,
		Verbose:   opts.Verbose,
	}
}
