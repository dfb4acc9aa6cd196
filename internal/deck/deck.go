package deck

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// PreviewLength is the number of characters shown for a collapsed card.
const PreviewLength = 150

var (
	// ErrEmpty is returned when card content is blank after trimming.
	ErrEmpty = errors.New("deck: card content is empty")
	// ErrNotFound is returned when no card has the requested id.
	ErrNotFound = errors.New("deck: card not found")
	// ErrDuplicateID is returned when a loaded card reuses an id.
	ErrDuplicateID = errors.New("deck: duplicate card id")
)

// Card is one piece of content to memorize.
type Card struct {
	ID      string
	Content string
}

// Chars returns the number of characters in the card.
func (c Card) Chars() int {
	return utf8.RuneCountInString(c.Content)
}

// Preview returns the collapsed form of the card.
func (c Card) Preview() string {
	return Preview(c.Content)
}

// Truncated reports whether Preview shortens the card.
func (c Card) Truncated() bool {
	return c.Chars() > PreviewLength
}

// Preview returns content cut to PreviewLength characters followed by
// "...", or content unchanged when it is short enough.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:PreviewLength]) + "..."
}

// Option configures a Deck.
type Option func(*Deck)

// WithIDFunc replaces the card id source. Tests use it for stable ids.
func WithIDFunc(fn func() string) Option {
	return func(d *Deck) {
		d.newID = fn
	}
}

// Deck is an ordered card collection, newest first.
//
// Thread-safety: not safe for concurrent use.
type Deck struct {
	cards []Card
	newID func() string
}

// New returns an empty deck. Card ids default to random UUIDs.
func New(opts ...Option) *Deck {
	d := &Deck{newID: uuid.NewString}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add trims content and puts a new card at the front of the deck.
// Returns ErrEmpty for blank content.
func (d *Deck) Add(content string) (Card, error) {
	return d.insert(d.newID(), content)
}

func (d *Deck) insert(id, content string) (Card, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Card{}, ErrEmpty
	}
	if _, ok := d.find(id); ok {
		return Card{}, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	card := Card{ID: id, Content: trimmed}
	d.cards = append([]Card{card}, d.cards...)
	return card, nil
}

// Delete removes the card with id.
func (d *Deck) Delete(id string) error {
	i, ok := d.find(id)
	if !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	d.cards = append(d.cards[:i], d.cards[i+1:]...)
	return nil
}

// Get returns the card with id.
func (d *Deck) Get(id string) (Card, error) {
	i, ok := d.find(id)
	if !ok {
		return Card{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return d.cards[i], nil
}

// List returns the cards, newest first. The slice is a copy.
func (d *Deck) List() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

func (d *Deck) find(id string) (int, bool) {
	for i, c := range d.cards {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}
